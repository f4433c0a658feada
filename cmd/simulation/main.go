package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"bidwizer-be/internal/dto"
	"bidwizer-be/internal/entity"
	"bidwizer-be/internal/pkg/logger"
	"bidwizer-be/internal/service"
	internalWS "bidwizer-be/internal/websocket"
	"bidwizer-be/pkg/simulator"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

// Terminal workspace: the same session, simulator and hub the host uses, with the
// websocket replaced by an in-process client.
func main() {
	tenderId := flag.String("tender", "T-1001", "tender to open")
	minDelay := flag.Duration("min-delay", 30*time.Millisecond, "minimum fragment delay")
	maxDelay := flag.Duration("max-delay", 80*time.Millisecond, "maximum fragment delay")
	flag.Parse()

	userColor := color.New(color.FgCyan, color.Bold)
	botColor := color.New(color.FgGreen)
	citeColor := color.New(color.FgYellow)
	errColor := color.New(color.FgRed)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log := logger.NewNopLogger()
	hub := internalWS.NewHub(nil, log)
	go hub.Run(ctx)

	workspaces := service.NewWorkspaceService(simulator.New(*minDelay, *maxDelay, log), hub, time.Hour, log)
	defer workspaces.Shutdown()

	ws, err := workspaces.Open(ctx, &dto.OpenWorkspaceRequest{TenderId: *tenderId})
	if err != nil {
		errColor.Printf("Cannot open workspace: %v\n", err)
		os.Exit(1)
	}

	stream := &internalWS.Client{Hub: hub, Channel: ws.SessionId.String(), Send: make(chan []byte, 256)}
	internalWS.Attach(hub, stream)

	fmt.Printf("=== BidWizer workspace: %s ===\n", ws.Tender.Title)
	fmt.Println("Commands: /file <doc-id>, /folder <path>, /all, /reset, /quit")

	in := bufio.NewScanner(os.Stdin)
	for {
		userColor.Print("\nYOU> ")
		if !in.Scan() {
			return
		}
		line := strings.TrimSpace(in.Text())

		switch {
		case line == "/quit":
			return
		case line == "/reset":
			_ = workspaces.Reset(ctx, ws.SessionId)
			fmt.Println("(conversation cleared)")
			continue
		case line == "/all":
			_, err = workspaces.SetSelection(ctx, ws.SessionId, &dto.SelectionRequest{})
		case strings.HasPrefix(line, "/file "):
			_, err = workspaces.SetSelection(ctx, ws.SessionId, &dto.SelectionRequest{FileId: strings.TrimPrefix(line, "/file ")})
		case strings.HasPrefix(line, "/folder "):
			_, err = workspaces.SetSelection(ctx, ws.SessionId, &dto.SelectionRequest{FolderPath: strings.TrimPrefix(line, "/folder ")})
		default:
			if err := ask(ctx, workspaces, ws.SessionId, line, stream, botColor, citeColor); err != nil {
				errColor.Printf("%v\n", err)
			}
			continue
		}
		if err != nil {
			errColor.Printf("%v\n", err)
			continue
		}
		got, _ := workspaces.Get(ctx, ws.SessionId)
		fmt.Printf("(scope: %s %s)\n", got.Scope, got.ScopeTarget)
	}
}

func ask(ctx context.Context, workspaces service.IWorkspaceService, id uuid.UUID, text string, stream *internalWS.Client, bot, cite *color.Color) error {
	start := time.Now()
	if _, err := workspaces.SendMessage(ctx, id, &dto.SendMessageRequest{Text: text}); err != nil {
		return err
	}

	bot.Print("AI> ")
	for raw := range stream.Send {
		var frame struct {
			Type string `json:"type"`
			Data struct {
				Delta     string            `json:"delta"`
				Done      bool              `json:"done"`
				Citations []entity.Citation `json:"citations"`
			} `json:"data"`
		}
		if err := json.Unmarshal(raw, &frame); err != nil {
			return err
		}
		if frame.Type == service.EventChatDelta {
			bot.Print(frame.Data.Delta)
			continue
		}
		fmt.Printf("\n(%v)\n", time.Since(start).Round(time.Millisecond))
		for _, c := range frame.Data.Citations {
			page := ""
			if c.Page != nil {
				page = fmt.Sprintf(" p.%d", *c.Page)
			}
			cite.Printf("  [%s%s] %s\n", c.DocName, page, c.Snippet)
		}
		return nil
	}
	return fmt.Errorf("stream closed")
}
