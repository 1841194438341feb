package domain

import "errors"

// ErrUnknownKind reports an envelope whose type discriminator matches no
// known reading kind.
var ErrUnknownKind = errors.New("unknown reading kind")
