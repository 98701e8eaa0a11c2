// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package email

import (
	"bufio"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// mockSMTPServer is a minimal SMTP server that accepts or rejects mail and
// records the DATA of every accepted message.
type mockSMTPServer struct {
	listener   net.Listener
	rejectMail bool

	mu       sync.Mutex
	messages []string
}

func newMockSMTPServer(t *testing.T, rejectMail bool) *mockSMTPServer {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	server := &mockSMTPServer{listener: listener, rejectMail: rejectMail}
	go server.serve()
	t.Cleanup(func() { _ = listener.Close() })
	return server
}

func (s *mockSMTPServer) config(t *testing.T) SMTPConfig {
	t.Helper()
	host, portStr, err := net.SplitHostPort(s.listener.Addr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return SMTPConfig{Host: host, Port: port, From: "noreply@example.com"}
}

func (s *mockSMTPServer) received() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.messages...)
}

func (s *mockSMTPServer) serve() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return // Server closed
		}
		go s.handleConnection(conn)
	}
}

func (s *mockSMTPServer) handleConnection(conn net.Conn) {
	defer func() { _ = conn.Close() }()

	reader := bufio.NewReader(conn)
	reply := func(line string) { _, _ = conn.Write([]byte(line + "\r\n")) }

	reply("220 localhost SMTP ready")
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		command := strings.ToUpper(strings.TrimSpace(line))

		switch {
		case strings.HasPrefix(command, "EHLO"), strings.HasPrefix(command, "HELO"):
			reply("250 Hello")
		case strings.HasPrefix(command, "MAIL FROM"):
			if s.rejectMail {
				reply("550 Mailbox unavailable")
				continue
			}
			reply("250 OK")
		case strings.HasPrefix(command, "RCPT TO"):
			reply("250 OK")
		case command == "DATA":
			reply("354 Start mail input")
			var data strings.Builder
			for {
				dataLine, err := reader.ReadString('\n')
				if err != nil {
					return
				}
				if dataLine == ".\r\n" {
					break
				}
				data.WriteString(dataLine)
			}
			s.mu.Lock()
			s.messages = append(s.messages, data.String())
			s.mu.Unlock()
			reply("250 OK")
		case command == "QUIT":
			reply("221 Bye")
			return
		default:
			reply("250 OK")
		}
	}
}
