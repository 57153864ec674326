package main

import "errors"

// Sentinel errors for CLI operations.
var (
	ErrUnknownCommand     = errors.New("unknown command")
	ErrInvalidFlags       = errors.New("invalid flags")
	ErrNoInput            = errors.New("no input specified")
	ErrNoRecords          = errors.New("no record files found")
	ErrInvalidExtension   = errors.New("record file must have .yaml or .yml extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrInvalidTimeout     = errors.New("invalid timeout")
	ErrWriteOutput        = errors.New("failed to write output file")
	ErrRendererInit       = errors.New("failed to initialize renderer")
	ErrBatchFailed        = errors.New("some documents failed")
	ErrAborted            = errors.New("aborted by user")
	ErrUnknownDistrict    = errors.New("unknown district")
	ErrUnknownBodyType    = errors.New("unknown local body type")
	ErrUnsupportedShell   = errors.New("unsupported shell")
)
