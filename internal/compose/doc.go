// Package compose plans and executes the final burn-in encode: the source
// video layered with the rendered caption document, written atomically to
// the destination path as H.264 video and AAC audio by default.
package compose
