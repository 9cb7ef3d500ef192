// host-sim pretends to be a hosting environment: it dials the bridge
// server's frame socket, sends JPEG frames, and prints the pose JSON
// and status the way a host's outputs would show them.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gorilla/websocket"
	"gocv.io/x/gocv"
)

func main() {
	addr := flag.String("addr", "localhost:8090", "bridge server address")
	framePath := flag.String("frame", "", "JPEG file to send (synthetic frame if empty)")
	count := flag.Int("count", 1, "number of frames to send")
	interval := flag.Duration("interval", 100*time.Millisecond, "delay between frames")
	flag.Parse()

	frame, err := loadFrame(*framePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "frame: %v\n", err)
		os.Exit(1)
	}

	url := fmt.Sprintf("ws://%s/ws/frames", *addr)
	fmt.Printf("Connecting to %s\n", url)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dial: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close()

	for i := 0; i < *count; i++ {
		if err := conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
			fmt.Fprintf(os.Stderr, "send: %v\n", err)
			os.Exit(1)
		}

		var resp struct {
			Result  json.RawMessage `json:"result"`
			Status  string          `json:"status"`
			FrameID uint64          `json:"frame_id"`
			Error   string          `json:"error"`
		}
		if err := conn.ReadJSON(&resp); err != nil {
			fmt.Fprintf(os.Stderr, "read: %v\n", err)
			os.Exit(1)
		}
		if resp.Error != "" {
			fmt.Fprintf(os.Stderr, "server error: %s\n", resp.Error)
			os.Exit(1)
		}

		fmt.Printf("[%d] %s\n", resp.FrameID, resp.Result)
		fmt.Println("Status:", resp.Status)

		time.Sleep(*interval)
	}
}

// loadFrame reads a JPEG from disk, or encodes a gray synthetic frame
// when no path is given.
func loadFrame(path string) ([]byte, error) {
	if path != "" {
		return os.ReadFile(path)
	}

	mat := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(128, 128, 128, 0),
		480, 640, gocv.MatTypeCV8UC3)
	defer mat.Close()

	buf, err := gocv.IMEncode(".jpg", mat)
	if err != nil {
		return nil, fmt.Errorf("encode synthetic frame: %w", err)
	}
	defer buf.Close()

	data := make([]byte, len(buf.GetBytes()))
	copy(data, buf.GetBytes())
	return data, nil
}
