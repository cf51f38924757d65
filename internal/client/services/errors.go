package services

import "errors"

var (
	ErrSameAccount     = errors.New("cannot transfer to your own UPI id")
	ErrUnknownReceiver = errors.New("receiver UPI id does not exist")
)
