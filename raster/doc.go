// Package raster turns PDF image data and vector drawings into pictures a
// word processor can embed.
//
// Image XObjects and inline images are decoded to PNG, except DCT (JPEG)
// data in gray or RGB, which is embedded unchanged. Supported color spaces
// are DeviceGray, DeviceRGB, DeviceCMYK, ICCBased (by component count),
// CalGray, CalRGB, Indexed and Separation, at 1, 2, 4, 8 or 16 bits per
// component. Images that cannot be decoded are replaced by a [Placeholder]
// and the caller receives an error wrapping [ErrUnsupported].
//
// [RenderDrawing] rasterizes ruling lines and flattened paths with
// golang.org/x/image/vector, and [RenderText] draws a line of text with the
// Go regular font for equation fallbacks.
package raster
