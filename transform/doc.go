// Package transform normalizes the string values of raw option maps before
// they are validated, for example after decoding a request body with
// [optinit.DecodeOptions].
package transform
