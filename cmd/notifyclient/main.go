// Command notifyclient connects to the loyalty notification websocket and
// prints incoming events. Useful for watching tier changes and challenge
// completions while poking the API.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/gorilla/websocket"
)

func main() {
	addr := flag.String("addr", "localhost:8888", "server address")
	userID := flag.String("user", "demo-user", "user id to listen for")
	flag.Parse()

	url := fmt.Sprintf("ws://%s/api/v1/notifications/%s/ws", *addr, *userID)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		log.Fatal("dial:", err)
	}
	defer conn.Close()

	log.Printf("listening for notifications for %s", *userID)
	for {
		_, p, err := conn.ReadMessage()
		if err != nil {
			log.Println("read error:", err)
			return
		}
		log.Printf("Received:\n%s\n", p)
	}
}
