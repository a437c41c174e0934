package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"net"
	"net/url"
	"os"
	"time"

	"github.com/gorilla/websocket"

	synchub "cardvault/internal/sync"
	"cardvault/pkg/logger"
	"cardvault/pkg/utils"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:7070", "TCP sync server address")
	wsURL := flag.String("ws", "", "websocket URL (e.g. ws://localhost:8080/ws); overrides -addr")
	token := flag.String("token", "", "access token for the websocket feed")
	pretty := flag.Bool("pretty", true, "pretty print JSON events")
	flag.Parse()

	log := logger.MustNew(utils.GetEnv("LOG_MODE", "dev", nil))
	defer log.Sync()

	for {
		var err error
		if *wsURL != "" {
			err = tailWS(*wsURL, *token, *pretty, log)
		} else {
			err = tailTCP(*addr, *pretty, log)
		}
		log.Warn("disconnected", "error", err)
		time.Sleep(1 * time.Second) // auto reconnect
	}
}

func tailTCP(addr string, pretty bool, log *logger.Logger) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	log.Info("connected", "addr", addr)

	sc := bufio.NewScanner(conn)
	for sc.Scan() {
		printEvent(sc.Bytes(), pretty)
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return os.ErrClosed
}

func tailWS(rawURL, token string, pretty bool, log *logger.Logger) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse %s: %w", rawURL, err)
	}
	if token != "" {
		q := u.Query()
		q.Set("access_token", token)
		u.RawQuery = q.Encode()
	}

	ws, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", rawURL, err)
	}
	defer ws.Close()

	log.Info("connected", "url", rawURL)

	for {
		_, msg, err := ws.ReadMessage()
		if err != nil {
			return err
		}
		printEvent(msg, pretty)
	}
}

func printEvent(line []byte, pretty bool) {
	if !pretty {
		fmt.Println(string(line))
		return
	}

	var ev synchub.Event
	if err := json.Unmarshal(line, &ev); err != nil || ev.UserID == "" {
		// welcome frames and anything unexpected
		fmt.Println(string(line))
		return
	}
	fmt.Printf("%s  %-18s user=%s", ev.At.Format(time.RFC3339), ev.Type, ev.UserID)
	for _, kv := range [][2]string{
		{"instance", ev.CardInstanceID},
		{"oracle", ev.OracleID},
		{"print", ev.PrintID},
		{"deck", ev.DeckID},
		{"deck_card", ev.DeckCardID},
		{"location", ev.CardLocation},
	} {
		if kv[1] != "" {
			fmt.Printf(" %s=%s", kv[0], kv[1])
		}
	}
	fmt.Println()
}
