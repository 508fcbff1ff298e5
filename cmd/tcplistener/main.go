package main

import (
	"flag"
	"fmt"
	"net"

	"github.com/Brownie44l1/http-pool/internal/headers"
	"github.com/Brownie44l1/http-pool/internal/request"
	"github.com/Brownie44l1/http-pool/internal/response"
)

func main() {
	addr := flag.String("addr", ":42069", "listen address")
	flag.Parse()

	listener, err := net.Listen("tcp", *addr)
	if err != nil {
		fmt.Println("Listen error:", err)
		return
	}
	defer listener.Close()
	fmt.Printf("Listening on %s...\n", listener.Addr())

	for {
		conn, err := listener.Accept()
		if err != nil {
			fmt.Println("Accept error:", err)
			continue
		}

		go handleConnection(conn)
	}
}

func handleConnection(conn net.Conn) {
	defer conn.Close()

	buf := make([]byte, request.DefaultBufferSize)
	req, err := request.ReadRequest(conn, buf, headers.DefaultMaxLines)
	if err != nil {
		fmt.Println("failed to read request:", err)
		return
	}

	fmt.Println("Request Line")
	fmt.Printf("Method: %s\n", req.Method)
	fmt.Printf("Path: %s\n", req.Path)
	fmt.Printf("Version: %s\n", req.Version)

	fmt.Println("Headers")
	for _, line := range req.Headers.Lines() {
		fmt.Printf("%s\n", line)
	}
	if dropped := req.Headers.Dropped(); dropped > 0 {
		fmt.Printf("(%d header lines dropped)\n", dropped)
	}

	body := fmt.Appendf(nil, "%s %s %s\n", req.Method, req.Path, req.Version)
	raw := response.Build(response.Text(response.StatusOK, body))
	if _, err := response.WriteAll(conn, raw); err != nil {
		fmt.Println("write error:", err)
		return
	}

	head, _ := response.SplitMessage(raw)
	length, _ := response.ParseContentLength(raw)
	fmt.Println("Response")
	fmt.Printf("%s\n", head)
	fmt.Printf("(%d body bytes)\n", length)
}
