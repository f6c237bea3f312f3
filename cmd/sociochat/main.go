package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rakshverma/sociochat/internal/app"
	"github.com/rakshverma/sociochat/internal/bus"
	"github.com/rakshverma/sociochat/internal/chat"
	"github.com/rakshverma/sociochat/internal/config"
	"github.com/rakshverma/sociochat/internal/model"
	"github.com/rakshverma/sociochat/internal/profile"
	"github.com/rakshverma/sociochat/internal/state"
	"go.uber.org/fx"
)

func main() {
	userFlag := flag.String("user", "", "user email (overrides config default_user)")
	apiFlag := flag.String("api", "", "history API base URL (overrides config)")
	socketFlag := flag.String("socket", "", "channel socket URL (overrides config)")
	flag.Parse()

	cfg, err := config.Load(profile.ConfigPath())
	if err != nil {
		cfg = &config.Config{}
	}
	if *apiFlag != "" {
		cfg.APIURL = *apiFlag
	}
	if *socketFlag != "" {
		cfg.SocketURL = *socketFlag
	}

	user := config.ResolveUser(*userFlag, cfg)
	if user == "" {
		fatal("no user configured: pass --user or set default_user in %s", profile.ConfigPath())
	}
	if err := profile.ValidateUser(user); err != nil {
		fatal("%v", err)
	}
	if cfg.APIURL == "" || cfg.SocketURL == "" {
		fatal("api_url and socket_url must be set (config or flags)")
	}

	var (
		sess *chat.Session
		b    *bus.Bus
	)
	fxApp := fx.New(
		app.Module(app.Params{User: user, Config: cfg}),
		fx.Populate(&sess, &b),
		fx.NopLogger,
	)
	if err := fxApp.Err(); err != nil {
		fatal("%v", err)
	}

	events, unsub := b.Subscribe("", 256)
	go printEvents(events)

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	err = fxApp.Start(startCtx)
	cancelStart()
	if err != nil {
		fatal("%v", err)
	}

	runLoop(sess)

	unsub()
	stopCtx, cancelStop := context.WithTimeout(context.Background(), 10*time.Second)
	_ = fxApp.Stop(stopCtx)
	cancelStop()
}

// runLoop reads commands from stdin until /quit or EOF. Plain text is sent
// to the active conversation.
func runLoop(sess *chat.Session) {
	fmt.Println("commands: /peers, /select <email>, /quit; anything else is sent as a message")

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "/quit":
			return
		case line == "/peers":
			listPeers(sess)
		case strings.HasPrefix(line, "/select "):
			selectPeer(sess, strings.TrimSpace(strings.TrimPrefix(line, "/select ")))
		default:
			if err := sess.SendMessage(context.Background(), line); err != nil {
				fmt.Printf("! %v\n", err)
			}
		}
	}
}

func listPeers(sess *chat.Session) {
	snap := sess.Snapshot()
	if len(snap.Peers) == 0 {
		fmt.Println("no friends yet")
		return
	}
	for _, p := range snap.Peers {
		marker := " "
		if snap.Active != nil && snap.Active.ID == p.ID {
			marker = "*"
		}
		fmt.Printf("%s %s <%s>\n", marker, p.DisplayName(), p.ID)
	}
}

func selectPeer(sess *chat.Session, id string) {
	if id == "" {
		fmt.Println("! usage: /select <email>")
		return
	}
	peer := model.Peer{ID: id}
	for _, p := range sess.Snapshot().Peers {
		if p.ID == id {
			peer = p
			break
		}
	}
	if err := sess.SelectPeer(context.Background(), peer); err != nil {
		fmt.Printf("! %v\n", err)
	}
}

func printEvents(events <-chan bus.Event) {
	for evt := range events {
		switch evt.Topic {
		case bus.TopicStateChanged:
			if change, ok := evt.Data.(state.Change); ok {
				fmt.Printf("-- session: %s\n", change.To)
			}
		case bus.TopicPeersLoaded:
			fmt.Printf("-- %v friends loaded\n", evt.Data)
		case bus.TopicConversationReplace:
			if rep, ok := evt.Data.(chat.ConversationReplaced); ok {
				fmt.Printf("-- conversation with %s\n", rep.Peer.DisplayName())
				for _, msg := range rep.Messages {
					who := msg.Sender
					if msg.FromUser {
						who = "me"
					}
					fmt.Printf("[%s] %s: %s\n", msg.CreatedAt.Local().Format("15:04"), who, msg.Content)
				}
			}
		case bus.TopicConversationMessage:
			if msg, ok := evt.Data.(model.Message); ok {
				who := msg.Sender
				if msg.FromUser {
					who = "me"
				}
				fmt.Printf("[%s] %s: %s\n", msg.CreatedAt.Local().Format("15:04"), who, msg.Content)
			}
		case bus.TopicSendFailed:
			if req, ok := evt.Data.(model.SendRequest); ok {
				fmt.Printf("! message to %s was not sent\n", req.Recipient)
			}
		case bus.TopicError:
			fmt.Printf("! %v\n", evt.Data)
		}
	}
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}
