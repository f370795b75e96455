package lookalike

import "bytes"

type Server struct {
	Addr string
}

type Client struct {
	Server *Server
}

type ID string

func NewServer(addr string) *Server {
	return &Server{Addr: addr}
}

func New(server *Server) (*Client, error) {
	return &Client{Server: server}, nil
}

func NewID(raw string) ID {
	return ID(raw)
}

func Newline() string {
	return "\n"
}

func NewsHeadline(title string) string {
	return title
}

func NewName(first string) string {
	return first
}

func NewBuffer() *bytes.Buffer {
	return &bytes.Buffer{}
}
