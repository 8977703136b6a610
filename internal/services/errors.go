package services

import "errors"

// Typed outcomes for the calling boundary. Handlers map these to stable
// response codes with errors.Is; storage-layer detail never crosses this line.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrAddressNotFound    = errors.New("user address not found")
	ErrPortalUserNotFound = errors.New("portal user not found")
	ErrCampaignNotFound   = errors.New("campaign not found")
	ErrResultNotFound     = errors.New("result not found")

	ErrEmailExists = errors.New("email already registered")

	ErrInvalidStatus               = errors.New("invalid status")
	ErrInvalidType                 = errors.New("invalid result type")
	ErrInvalidStatusForImageUpdate = errors.New("image update requires finished or failed status")
	ErrObjectCountRequired         = errors.New("object count required for finished status")

	ErrUploadFailed = errors.New("image upload failed")
)
