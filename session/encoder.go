package session

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const maxFieldLen = 255

// Encode serializes s as:
//
//	version(1) | len(1) userID | len(1) username | createdAt(int64 BE)
func Encode(s *Session) ([]byte, error) {
	if s == nil {
		return nil, errors.New("nil session")
	}
	if len(s.UserID) > maxFieldLen {
		return nil, errors.New("userID too long")
	}
	if len(s.Username) > maxFieldLen {
		return nil, errors.New("username too long")
	}

	var buf bytes.Buffer
	buf.Grow(1 + 1 + len(s.UserID) + 1 + len(s.Username) + 8)

	buf.WriteByte(CurrentSchemaVersion)

	buf.WriteByte(byte(len(s.UserID)))
	buf.WriteString(s.UserID)

	buf.WriteByte(byte(len(s.Username)))
	buf.WriteString(s.Username)

	if err := binary.Write(&buf, binary.BigEndian, s.CreatedAt); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Decode parses a payload produced by [Encode]. Trailing bytes are rejected.
func Decode(data []byte) (*Session, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}
	if version != CurrentSchemaVersion {
		return nil, fmt.Errorf("unsupported session schema version %d", version)
	}

	s := &Session{SchemaVersion: version}

	if s.UserID, err = readShortString(reader); err != nil {
		return nil, err
	}
	if s.Username, err = readShortString(reader); err != nil {
		return nil, err
	}
	if err := binary.Read(reader, binary.BigEndian, &s.CreatedAt); err != nil {
		return nil, err
	}

	if reader.Len() != 0 {
		return nil, errors.New("trailing bytes in session record")
	}

	return s, nil
}

func readShortString(r *bytes.Reader) (string, error) {
	n, err := r.ReadByte()
	if err != nil {
		return "", err
	}
	raw := make([]byte, n)
	if _, err := io.ReadFull(r, raw); err != nil {
		return "", err
	}
	return string(raw), nil
}
