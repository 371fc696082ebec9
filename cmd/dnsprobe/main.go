// dnsprobe sends one DNS query and structurally decodes the raw reply,
// printing what the wire inspector would report for it.
package main

import (
	"flag"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/miekg/dns"

	"github.com/jroosing/dnslens/internal/wire"
)

func main() {
	var (
		server   = flag.String("server", "8.8.8.8:53", "DNS server HOST:PORT")
		name     = flag.String("name", "example.com", "Query name")
		qtype    = flag.Int("qtype", int(dns.TypeA), "Query type (numeric, A=1)")
		timeout  = flag.Duration("timeout", 2*time.Second, "Per-request timeout")
		recvSize = flag.Int("recv-size", 4096, "UDP receive buffer size")
		quiet    = flag.Bool("quiet", false, "Suppress output (exit status indicates decode result)")
	)
	flag.Parse()

	resp, err := queryUDP(*server, *name, uint16(*qtype), *timeout, *recvSize)
	if err != nil {
		if !*quiet {
			fmt.Fprintf(os.Stderr, "dnsprobe error: %v\n", err)
		}
		os.Exit(1)
	}

	s := wire.Decode(resp)
	if !*quiet {
		fmt.Printf("received %d bytes\n", len(resp))
		fmt.Printf("status=%s %s\n", s.Status, s.Header)
		if s.OK() {
			fmt.Printf("rcode=%d truncated=%t\n", s.Header.RCode(), s.Header.Truncated())
		}
	}
	if !s.OK() {
		os.Exit(2)
	}
}

func queryUDP(server, name string, qtype uint16, timeout time.Duration, recvSize int) ([]byte, error) {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(name), qtype)
	reqBytes, err := m.Pack()
	if err != nil {
		return nil, err
	}

	addr, err := net.ResolveUDPAddr("udp", server)
	if err != nil {
		return nil, err
	}
	c, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	_ = c.SetDeadline(time.Now().Add(timeout))
	if _, err := c.Write(reqBytes); err != nil {
		return nil, err
	}
	buf := make([]byte, recvSize)
	n, err := c.Read(buf)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}
