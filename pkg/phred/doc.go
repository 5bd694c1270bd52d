// Package phred turns per-category log-likelihoods into a Phred-scaled
// quality score. It exposes [Softmax], [Compute], [Score] and
// [PhredScaledLikelihoods], generic over the working [Float] precision,
// plus [ComputeAs] for callers that pick the precision at runtime.
package phred
