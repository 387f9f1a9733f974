package utils

import "errors"

var ErrorRecordNotFound = errors.New("record not found")
var ErrorValidation = errors.New("validation failed")
var ErrorPermissionDenied = errors.New("permission denied")
var ErrorRemoteRejected = errors.New("remote rejected the request")
var ErrorNetwork = errors.New("network error")

func ErrorPanic(err error) {
	if err != nil {
		panic(err)
	}
}
