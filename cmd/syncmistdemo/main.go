// Command syncmistdemo is a small manual-testing harness: it starts one
// SyncMist endpoint, advertises and browses for peers over mDNS, and
// sends each line you type to a connected peer (with several peers
// connected to the server, each line goes to only one of them).
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"syncmist"
)

const (
	PackageName = "syncmist"
	ServerMode  = "s"
	ClientMode  = "c"
	ServerIcon  = "🌐"
	ClientIcon  = "🖥️"
)

func main() {
	appCtx, appCtxCancel := context.WithCancel(context.Background())
	defer appCtxCancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		<-sigChan
		fmt.Println("\n⏹️  Interrupt received. Shutting down...")
		appCtxCancel()
	}()

	var mode string
	if len(os.Args) < 2 {
		mode = strings.ToLower(strings.TrimSpace(promptForMode()))
	} else {
		mode = os.Args[1]
	}

	deviceID := deviceIDFromArgsOrDefault()
	deviceName := "syncmist-demo"

	switch mode {
	case ServerMode:
		fmt.Printf("%s Starting server...\n", ServerIcon)
		runServer(appCtx, deviceID, deviceName)
	case ClientMode:
		if len(os.Args) < 4 {
			fmt.Println("❌ client mode needs a peer address and port: syncmistdemo c <addr> <port>")
			os.Exit(1)
		}
		fmt.Printf("%s️ Starting client...\n", ClientIcon)
		runClient(appCtx, deviceID, deviceName, os.Args[2], os.Args[3])
	default:
		fmt.Printf("❌ Unknown mode: %s\n", mode)
		printUsage()
		os.Exit(1)
	}
}

func runServer(ctx context.Context, deviceID, deviceName string) {
	transport := syncmist.NewTransport()
	defer transport.Close()

	if err := transport.StartServer(syncmist.DefaultDiscoveryPort); err != nil {
		fmt.Printf("❌ failed to start server: %v\n", err)
		return
	}

	disc := syncmist.NewDiscovery(deviceID, deviceName)
	if err := disc.Register(syncmist.DefaultDiscoveryPort); err != nil {
		fmt.Printf("⚠️  mDNS registration failed, continuing without it: %v\n", err)
	}
	defer disc.Stop()

	go relayReceivedMessages(ctx, transport)

	fmt.Println("👂 waiting for peers to connect...")
	for {
		peerKey, err := transport.AcceptConnection(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			fmt.Printf("⚠️  accept error: %v\n", err)
			continue
		}
		fmt.Printf("✅ peer connected: %s\n", peerKey)
		go readStdinAndSend(ctx, transport, peerKey)
	}
}

func runClient(ctx context.Context, deviceID, deviceName, addr, port string) {
	transport := syncmist.NewTransport()
	defer transport.Close()

	disc := syncmist.NewDiscovery(deviceID, deviceName)
	if err := disc.StartBrowsing(ctx); err != nil {
		fmt.Printf("⚠️  mDNS browse failed: %v\n", err)
	}
	defer disc.Stop()

	var portNum uint16
	if _, err := fmt.Sscanf(port, "%d", &portNum); err != nil {
		fmt.Printf("❌ invalid port %q: %v\n", port, err)
		os.Exit(1)
	}

	peerKey, err := transport.ConnectToPeer(ctx, addr, portNum)
	if err != nil {
		fmt.Printf("❌ failed to connect to %s:%s: %v\n", addr, port, err)
		return
	}
	fmt.Printf("✅ connected to %s\n", peerKey)

	go relayReceivedMessages(ctx, transport)
	readStdinAndSend(ctx, transport, peerKey)
}

func relayReceivedMessages(ctx context.Context, t *syncmist.Transport) {
	for msg := range t.ReceiveStream(ctx) {
		fmt.Printf("\n📋 %s: %s\n> ", msg.PeerKey, string(msg.Payload))
	}
}

func readStdinAndSend(ctx context.Context, t *syncmist.Transport, peerKey string) {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		line := scanner.Text()
		if line == "" {
			fmt.Print("> ")
			continue
		}
		if err := t.Send(ctx, peerKey, []byte(line)); err != nil {
			fmt.Printf("⚠️  send failed: %v\n", err)
		}
		fmt.Print("> ")
	}
}

func deviceIDFromArgsOrDefault() string {
	hostname, err := os.Hostname()
	if err != nil || len(hostname) < 8 {
		return "syncmistdemo-device-id"
	}
	return hostname + "-demo-id"
}

func promptForMode() string {
	fmt.Printf("✨ Welcome to %s!\n", PackageName)
	fmt.Println("Please select mode:")
	fmt.Printf("\t %s - Server %s\n", ServerMode, ServerIcon)
	fmt.Printf("\t %s - Client %s\n", ClientMode, ClientIcon)
	fmt.Print("👉 Your choice: ")

	scanner := bufio.NewScanner(os.Stdin)
	if scanner.Scan() {
		return strings.TrimSpace(scanner.Text())
	}
	return ""
}

func printUsage() {
	fmt.Printf(`Usage: %s <mode> [args]
Modes:
  %s            - Server %s
  %s <addr> <port> - Client %s
`, PackageName, ServerMode, ServerIcon, ClientMode, ClientIcon)
}
