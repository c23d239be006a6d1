package anim

import "errors"

// Load-time errors. They are fatal to building a mesh's registry.
var (
	ErrDuplicateName = errors.New("animation name is not unique")
	ErrImportFailure = errors.New("animation import failed")
	ErrNoCommonBone  = errors.New("animation shares no bone with the mesh skeleton")
)

// Runtime errors.
var (
	ErrUnknownAnimationName = errors.New("unknown animation name")
	ErrInvalidDefaultFlag   = errors.New("default animation must have the repeat flag")
	ErrNoDefault            = errors.New("no default animation set")
)
