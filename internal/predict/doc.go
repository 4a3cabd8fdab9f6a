// Package predict turns a URL into a label and a percentage score.
//
// A Predictor owns the pre-loaded model. Predict extracts the feature
// vector, scores it and scales the probability of the predicted label to
// [0, 100]. The model is never reloaded, so one Predictor is shared by all
// request handlers.
package predict
