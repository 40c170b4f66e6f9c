// Package filters decodes PDF stream filters.
//
// Streams reach the interpreter either already decoded by the object model
// provider or, for image data and inline images, still encoded. Decode
// dispatches on the filter name:
//
//	data, err := filters.Decode("FlateDecode", raw, filters.Params{"Predictor": 12, "Columns": 4})
//
// Chains of filters are applied in order with DecodeChain. Image codecs that
// are stored verbatim in the output package (DCTDecode, JPXDecode) are
// reported through ErrPassthrough so callers can keep the encoded bytes.
package filters
