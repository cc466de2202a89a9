// Request Parsing
//
// Copyright (c) 2023  Philip Kaludercic
//
// This file is part of go-sandpit.
//
// go-sandpit is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License,
// version 3, as published by the Free Software Foundation.
//
// go-sandpit is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the GNU
// Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public
// License, version 3, along with go-sandpit. If not, see
// <http://www.gnu.org/licenses/>

package proto

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Every request is terminated by this sentinel
const EOM = "EOM"

// Upper bound on the size of a request
const maxRequest = 1 << 20

const (
	CmdPing = "PING"
	CmdAdd  = "ADD"
	CmdDel  = "DEL"
	CmdTest = "TEST"
)

var errTooLarge = errors.New("request too large")

// Syndicate is either a JSON number or a string containing a number
type Syndicate string

func (s *Syndicate) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = Syndicate(str)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("syndicate must be a number or a string: %s", data)
	}
	*s = Syndicate(num)
	return nil
}

func (s Syndicate) MarshalJSON() ([]byte, error) {
	if _, err := strconv.Atoi(string(s)); err == nil {
		return []byte(s), nil
	}
	return json.Marshal(string(s))
}

func (s Syndicate) Int() (int, error) {
	return strconv.Atoi(strings.TrimSpace(string(s)))
}

// Request sent by a client.  Fields that are only used by some
// commands are optional.
type Request struct {
	Cmd     string     `json:"cmd,omitempty"`
	Name    *string    `json:"name,omitempty"`
	Syn     *Syndicate `json:"syn,omitempty"`
	Data    *string    `json:"data,omitempty"`
	Data2   *string    `json:"data2,omitempty"`
	VT1     *string    `json:"vt1,omitempty"`
	VT2     *string    `json:"vt2,omitempty"`
	SameCol bool       `json:"same_col,omitempty"`
}

// Parse a single request, with or without a trailing sentinel
func Parse(raw []byte) (*Request, error) {
	raw = bytes.TrimSuffix(bytes.TrimSpace(raw), []byte(EOM))

	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// ReadRequest reads from R until the sentinel has been received
func ReadRequest(r io.Reader) (*Request, error) {
	var (
		buf bytes.Buffer
		br  = bufio.NewReader(r)
	)
	// The sentinel may also occur within the request, so reading
	// only stops if everything before it is a complete value.
	for !complete(buf.Bytes()) {
		b, err := br.ReadByte()
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return nil, err
		}
		buf.WriteByte(b)
		if buf.Len() > maxRequest {
			return nil, errTooLarge
		}
	}

	return Parse(buf.Bytes())
}

func complete(data []byte) bool {
	return bytes.HasSuffix(data, []byte(EOM)) &&
		json.Valid(bytes.TrimSuffix(data, []byte(EOM)))
}

// Encode a request for sending
func (r *Request) Encode() ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	return append(data, EOM...), nil
}

func str(s string) *string { return &s }

func Ping() *Request { return &Request{Cmd: CmdPing} }

func Add(name string, syn int, source string) *Request {
	s := Syndicate(strconv.Itoa(syn))
	return &Request{Cmd: CmdAdd, Name: str(name), Syn: &s, Data: str(source)}
}

func Del(name string, syn int) *Request {
	s := Syndicate(strconv.Itoa(syn))
	return &Request{Cmd: CmdDel, Name: str(name), Syn: &s}
}

func Test(source1, source2, vt1, vt2 string, same bool) *Request {
	return &Request{
		Cmd:     CmdTest,
		Data:    str(source1),
		Data2:   str(source2),
		VT1:     str(vt1),
		VT2:     str(vt2),
		SameCol: same,
	}
}
