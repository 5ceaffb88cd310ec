// Package modelselect compares regression and classification model
// configurations by train/holdout partitioning and k-fold cross-validation.
//
// A run loads a typed dataset, splits it into a training and a holdout
// partition with an explicit seed, cross-validates every candidate
// configuration (ordinary least squares, ridge and lasso shrinkage paths,
// greedy subset searches, or a logistic classifier) on the training
// partition, picks the best candidate, refits it on the full training set
// and reports its coefficients together with a single holdout score.
//
// The subpackages are:
//
//   - dataset: the immutable column store, train/holdout partitioning and
//     fold assignment
//   - linear: the OLS, ridge, lasso and logistic fitters
//   - preprocessing: the center/scale transform
//   - metrics: RMSE and friends, plus the 2x2 confusion matrix
//   - selection: the experiment engine tying everything together
//
// The modelselect command runs an experiment described by a YAML file; see
// cmd/modelselect.
package modelselect
