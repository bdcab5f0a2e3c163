// Package conv provides checked integer conversions.
//
// Use these where a value comes from input that was not produced by this
// process, such as dataset headers or ground-truth ids. Loop indices and
// other values bounded by construction use plain casts.
package conv
