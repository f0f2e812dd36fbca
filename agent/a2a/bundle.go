package a2a

import (
	"github.com/fxamacker/cbor/v2"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	encMode = try.To1(cbor.CoreDetEncOptions().EncMode())
	decMode = try.To1(cbor.DecOptions{
		DupMapKey: cbor.DupMapKeyEnforcedAPF,
	}.DecMode())
}

// item is one bundled message: the tag and the message body.
type item struct {
	Type Type            `cbor:"@type"`
	Body cbor.RawMessage `cbor:"body"`
}

type bundle struct {
	Bundled [][]byte `cbor:"bundled"`
}

// Marshal encodes v with the deterministic CBOR encoding used on the wire.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes CBOR data to v.
func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}

// Bundle encodes the ordered message list to a message bundle.
func Bundle(msgs []Msg) (data []byte, err error) {
	defer err2.Handle(&err, "bundle")

	b := bundle{Bundled: make([][]byte, 0, len(msgs))}
	for _, m := range msgs {
		var body []byte
		if u, ok := m.(*Unknown); ok {
			body = u.Body
		} else {
			body = try.To1(encMode.Marshal(m))
		}
		b.Bundled = append(b.Bundled, try.To1(encMode.Marshal(item{
			Type: m.Type(),
			Body: body,
		})))
	}
	return encMode.Marshal(b)
}

// Unbundle decodes a message bundle keeping the message order. Messages with
// unregistered type are returned as *Unknown.
func Unbundle(data []byte) (msgs []Msg, err error) {
	defer err2.Handle(&err, "unbundle")

	var b bundle
	try.To(decMode.Unmarshal(data, &b))

	msgs = make([]Msg, 0, len(b.Bundled))
	for _, d := range b.Bundled {
		var it item
		try.To(decMode.Unmarshal(d, &it))

		m, ok := Creator.New(it.Type)
		if !ok {
			msgs = append(msgs, &Unknown{T: it.Type, Body: it.Body})
			continue
		}
		try.To(decMode.Unmarshal(it.Body, m))
		msgs = append(msgs, m)
	}
	return msgs, nil
}
