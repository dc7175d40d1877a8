package table

const (
	// jumps further than MaxJump positions share the outermost bucket
	MaxJump = 16
	// NullJump is the bucket of every transition whose previous target
	// token is aligned to NULL
	NullJump    = uint32(2*MaxJump + 1)
	JumpBuckets = NullJump + 1
	JumpAlpha   = 0.5

	// fertilities above MaxFertility share the last bucket
	MaxFertility = 8
	FertBuckets  = uint32(MaxFertility + 1)
	FertAlpha    = 0.5
)

// JumpBucket returns the bucket of a transition into source position to
// (1-based). from is the source position of the previous target token,
// 0 at sentence start, or negative if that token is aligned to NULL.
func JumpBucket(from, to int) uint32 {
	if from < 0 {
		return NullJump
	}
	d := to - from
	if d > MaxJump {
		d = MaxJump
	} else if d < -MaxJump {
		d = -MaxJump
	}
	return uint32(d + MaxJump)
}

// FertBucket returns the bucket of fertility phi.
func FertBucket(phi uint16) uint32 {
	if phi > MaxFertility {
		return FertBuckets - 1
	}
	return uint32(phi)
}
