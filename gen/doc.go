// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package gen contains generators for common
// kinds of logic programs.
//
// The programs are returned as text for gasp.Control.Add and are used in
// tests and benchmarks.  Random generators draw from a package source
// which may be reseeded with Seed.
package gen
