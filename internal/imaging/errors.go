package imaging

import "errors"

var (
	ErrInvalidAsset    = errors.New("invalid image asset")
	ErrEncodingFailure = errors.New("failed to process image, try again")
	ErrImageTooLarge   = errors.New("image too large")
)
