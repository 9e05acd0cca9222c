package correlator

// ActorType is a closed enumeration of the ways a process can act on an
// artifact. The mapping from ActorType to ActorDirection is total and
// fixed at build time (spec §3).
type ActorType int

const (
	// ActorUndefined is the sentinel "invalid" value.
	ActorUndefined ActorType = iota

	// NotActor marks events that belong to the process entity itself,
	// not to a subject/object relation.
	NotActor

	// Read/receive direction.
	RemoteThread
	Tampering
	Accept
	CreateStreamHash

	// Write/send direction.
	Connect
	Create
	Delete
	Modify
	RegAdd
	RegDelete
	RegSet
	RegRename
)

// String renders the actor type the way it appears in actor keys and the
// actor.type tag.
func (t ActorType) String() string {
	switch t {
	case NotActor:
		return "NotActor"
	case RemoteThread:
		return "REMOTE_THREAD"
	case Tampering:
		return "TAMPERING"
	case Accept:
		return "ACCEPT"
	case CreateStreamHash:
		return "CREATE_STREAM_HASH"
	case Connect:
		return "CONNECT"
	case Create:
		return "CREATE"
	case Delete:
		return "DELETE"
	case Modify:
		return "MODIFY"
	case RegAdd:
		return "REG_ADD"
	case RegDelete:
		return "REG_DELETE"
	case RegSet:
		return "REG_SET"
	case RegRename:
		return "REG_RENAME"
	default:
		return "Undefined"
	}
}

// ActorDirection is the coarse partition used to choose which actor map
// holds a given actor type.
type ActorDirection int

const (
	DirectionNotActor ActorDirection = iota
	DirectionReadRecv
	DirectionWriteSend
)

func (d ActorDirection) String() string {
	switch d {
	case DirectionReadRecv:
		return "ReadRecv"
	case DirectionWriteSend:
		return "WriteSend"
	default:
		return "NotActor"
	}
}

// directionTable is the total, fixed mapping from ActorType to
// ActorDirection described in spec §3.
var directionTable = map[ActorType]ActorDirection{
	NotActor:         DirectionNotActor,
	RemoteThread:     DirectionReadRecv,
	Tampering:        DirectionReadRecv,
	Accept:           DirectionReadRecv,
	CreateStreamHash: DirectionReadRecv,
	Connect:          DirectionWriteSend,
	Create:           DirectionWriteSend,
	Delete:           DirectionWriteSend,
	Modify:           DirectionWriteSend,
	RegAdd:           DirectionWriteSend,
	RegDelete:        DirectionWriteSend,
	RegSet:           DirectionWriteSend,
	RegRename:        DirectionWriteSend,
}

// DirectionOf returns the fixed direction for an actor type. Unrecognized
// or ActorUndefined types return DirectionNotActor with ok=false.
func DirectionOf(t ActorType) (dir ActorDirection, ok bool) {
	dir, ok = directionTable[t]
	return dir, ok
}
