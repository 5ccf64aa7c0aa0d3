// Package spendsort provides an expense categorization engine that embeds
// expense descriptions into vectors and matches them against labeled
// example phrases.
//
// Quick start:
//
//	s, err := spendsort.New(spendsort.WithModelDir("models/"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Close()
//
//	pred, _ := s.Categorize(ctx, "uber to the airport")
//	fmt.Println(pred.Category, pred.Confidence) // Travel High
//
// The Spendsort instance is safe for concurrent use. Create once, reuse
// across requests. See the README for full documentation.
package spendsort
