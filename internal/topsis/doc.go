// Package topsis ranks alternatives with the Technique for Order of Preference
// by Similarity to Ideal Solution.
//
// Compute runs the vector-normalised pipeline over an in-memory decision matrix:
//
//  1. normalise each criterion column by its Euclidean norm
//  2. multiply by the criterion weight
//  3. derive the ideal best and ideal worst points per column
//  4. measure each alternative's Euclidean distance to both points
//  5. score = dist_worst / (dist_best + dist_worst), then rank descending
//
// All input validation happens before any arithmetic, so a failing call never
// produces a partial result. Errors are package sentinels and are matched with
// errors.Is.
package topsis
