/*
Package a2a is the Agent-to-Agent message set of the cloud agent. Messages are
statically typed Go structs identified by a Type tag. Each message kind
registers itself to the Creator factor, which lets the bundle decoder build the
correct Go type for an incoming message. Tags that are not registered decode to
Unknown so that the receiver can reject them by their tag.
*/
package a2a

import (
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// Version is the message version this agent speaks.
const Version = "1.0"

// Message names
const (
	NameForward    = "FWD"
	NameCreateKey  = "CREATE_KEY"
	NameKeyCreated = "KEY_CREATED"
)

// Type is the message type tag.
type Type struct {
	Name string `cbor:"name" json:"name"`
	Ver  string `cbor:"ver" json:"ver"`
}

func (t Type) String() string {
	return t.Name + "/" + t.Ver
}

var (
	TypeForward    = Type{Name: NameForward, Ver: Version}
	TypeCreateKey  = Type{Name: NameCreateKey, Ver: Version}
	TypeKeyCreated = Type{Name: NameKeyCreated, Ver: Version}
)

// Msg is an A2A message.
type Msg interface {
	Type() Type
}

// Forward asks the receiver to route Msg as is to the agent of the Fwd DID.
type Forward struct {
	Fwd string `cbor:"@fwd"`
	Msg []byte `cbor:"@msg"`
}

func (*Forward) Type() Type { return TypeForward }

// CreateKey asks the agent to provision a pairwise relationship for ForDID.
type CreateKey struct {
	ForDID       string `cbor:"forDID"`
	ForDIDVerKey string `cbor:"forDIDVerKey"`
}

func (*CreateKey) Type() Type { return TypeCreateKey }

// KeyCreated is the reply to CreateKey.
type KeyCreated struct {
	WithPairwiseDID       string `cbor:"withPairwiseDID"`
	WithPairwiseDIDVerKey string `cbor:"withPairwiseDIDVerKey"`
}

func (*KeyCreated) Type() Type { return TypeKeyCreated }

// Unknown is a message which type isn't registered. Body is kept undecoded.
type Unknown struct {
	T    Type
	Body cbor.RawMessage
}

func (u *Unknown) Type() Type { return u.T }

// Creator is the message factor: it creates an empty message of the type.
var Creator = &Factor{factors: make(map[Type]func() Msg)}

type Factor struct {
	l       sync.RWMutex
	factors map[Type]func() Msg
}

func (f *Factor) Add(t Type, factor func() Msg) {
	f.l.Lock()
	defer f.l.Unlock()
	f.factors[t] = factor
}

// New returns an empty message of the type, or false if the type is unknown.
func (f *Factor) New(t Type) (Msg, bool) {
	f.l.RLock()
	defer f.l.RUnlock()
	factor, ok := f.factors[t]
	if !ok {
		return nil, false
	}
	return factor(), true
}

func init() {
	Creator.Add(TypeForward, func() Msg { return &Forward{} })
	Creator.Add(TypeCreateKey, func() Msg { return &CreateKey{} })
	Creator.Add(TypeKeyCreated, func() Msg { return &KeyCreated{} })
}
