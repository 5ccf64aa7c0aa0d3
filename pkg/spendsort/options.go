package spendsort

import "path/filepath"

type options struct {
	modelDir      string
	modelPath     string
	vocabPath     string
	runtimeLib    string
	strategy      string
	highThreshold float64
	lowThreshold  float64
	categories    []Category
	categoriesCSV string
	embedder      Embedder
}

// Option configures a Spendsort instance.
type Option func(*options)

// WithModelDir sets the directory containing model files.
// Expects: model.onnx, vocab.txt, libonnxruntime.so.
func WithModelDir(dir string) Option {
	return func(o *options) {
		o.modelDir = dir
	}
}

// WithModelPaths sets explicit paths for the model and vocabulary files.
// Use this when model files aren't in the default directory layout.
func WithModelPaths(model, vocab string) Option {
	return func(o *options) {
		o.modelPath = model
		o.vocabPath = vocab
	}
}

// WithRuntimeLibrary sets the path to the ONNX Runtime shared library.
// Default: libonnxruntime.so next to the model file.
func WithRuntimeLibrary(path string) Option {
	return func(o *options) {
		o.runtimeLib = path
	}
}

// WithStrategy sets the matching strategy: "flat" scans every example phrase,
// "centroid" compares against one averaged vector per category.
// Default: "flat".
func WithStrategy(s string) Option {
	return func(o *options) {
		o.strategy = s
	}
}

// WithThresholds sets the confidence bucket boundaries: scores >= high are
// High, >= low are Medium, below low are Low and flagged for review.
// Default: 0.75 and 0.45.
func WithThresholds(high, low float64) Option {
	return func(o *options) {
		o.highThreshold = high
		o.lowThreshold = low
	}
}

// WithCategories replaces the built-in category table. Category order
// matters: earlier categories win similarity ties.
func WithCategories(cats []Category) Option {
	return func(o *options) {
		o.categories = cats
	}
}

// WithCategoriesCSV loads the category table from a CSV file with
// category,phrase rows. Takes precedence over WithCategories.
func WithCategoriesCSV(path string) Option {
	return func(o *options) {
		o.categoriesCSV = path
	}
}

// WithEmbedder replaces the built-in ONNX embedder. Model path options are
// ignored when set. Close() is still called on the provided embedder when
// the Spendsort instance is closed.
func WithEmbedder(e Embedder) Option {
	return func(o *options) {
		o.embedder = e
	}
}

func defaultOptions() options {
	return options{
		strategy:      "flat",
		highThreshold: 0.75,
		lowThreshold:  0.45,
	}
}

// resolvePaths determines the model and vocab file paths from the configured
// options. Explicit paths take precedence over modelDir.
func resolvePaths(o options) (model, vocab string) {
	if o.modelPath != "" {
		return o.modelPath, o.vocabPath
	}
	dir := o.modelDir
	if dir == "" {
		dir = "models"
	}
	return filepath.Join(dir, "model.onnx"), filepath.Join(dir, "vocab.txt")
}
