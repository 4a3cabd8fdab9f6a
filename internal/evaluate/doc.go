// Package evaluate measures a classifier against labelled synthetic URLs.
//
// A Generator produces a deterministic, shuffled mix of genuine and
// malicious URLs. An Evaluator scores them concurrently and NewReport folds
// the outcomes into a confusion matrix with accuracy, precision, recall and
// F1 expressed as percentages.
package evaluate
