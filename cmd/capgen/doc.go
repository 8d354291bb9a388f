// Command capgen generates burned-in captions for a video file.
//
//	capgen input.mp4 output.mp4
//	capgen --model small input.mp4 output.mp4
//	capgen probe input.mp4
//	capgen deps
//	capgen config init
package main
