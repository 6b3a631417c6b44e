// Manual test client for the streaming chat endpoint. Reads lines from
// stdin, sends each as one chat turn, and prints the delta/done/error
// frames coming back.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

type frame struct {
	Type  string `json:"type"`
	Text  string `json:"text,omitempty"`
	Delta string `json:"delta,omitempty"`
	Error string `json:"error,omitempty"`
}

func main() {
	addr := flag.String("addr", "localhost:8888", "server address")
	sessionID := flag.String("session", "", "chat session id")
	token := flag.String("token", "", "bearer token")
	flag.Parse()

	if *sessionID == "" || *token == "" {
		log.Fatal("both -session and -token are required")
	}

	url := fmt.Sprintf("ws://%s/api/v1/ws/chat/%s", *addr, *sessionID)
	header := http.Header{"Authorization": {"Bearer " + *token}}

	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	if err != nil {
		log.Fatal("dial:", err)
	}
	defer conn.Close()

	go func() {
		for {
			_, p, err := conn.ReadMessage()
			if err != nil {
				log.Println("read error:", err)
				os.Exit(1)
			}

			var f frame
			if err := json.Unmarshal(p, &f); err != nil {
				log.Println("bad frame:", string(p))
				continue
			}

			switch f.Type {
			case "delta":
				fmt.Print(f.Delta)
			case "done":
				fmt.Println()
			case "error":
				log.Println("server error:", f.Error)
			}
		}
	}()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		text := scanner.Text()
		if text == "" {
			continue
		}

		mJson, err := json.Marshal(frame{Text: text})
		if err != nil {
			log.Println("json marshal error:", err)
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, mJson); err != nil {
			log.Fatal("write error:", err)
		}
	}
}
