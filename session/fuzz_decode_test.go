package session

import "testing"

// FuzzSessionDecode exercises the binary session decoder with arbitrary inputs.
// Goal: no panics, graceful error handling, stable re-encoding.
func FuzzSessionDecode(f *testing.F) {
	encoded, err := Encode(&Session{UserID: "user1", Username: "alice", CreatedAt: 1700000000})
	if err == nil {
		f.Add(encoded)
	}

	f.Add([]byte{})
	f.Add([]byte{0})
	f.Add([]byte{1})
	f.Add([]byte{1, 255, 255})
	if len(encoded) > 5 {
		f.Add(encoded[:5])
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		s, err := Decode(data)
		if err != nil {
			return
		}
		again, err := Encode(s)
		if err != nil {
			t.Fatalf("re-encode of decoded session failed: %v", err)
		}
		if string(again) != string(data) {
			t.Fatalf("re-encode mismatch")
		}
	})
}
