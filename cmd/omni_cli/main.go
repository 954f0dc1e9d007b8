package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"omni-relay/internal/client"
	"omni-relay/internal/domain"
	"omni-relay/internal/stream"
)

var (
	serverURL string
	userID    string
)

func main() {
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "omni_cli",
		Short: "Consumidor de terminal del relay (reemplaza a las vistas de la extensión)",
	}
	root.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:3001", "URL base del relay")
	root.PersistentFlags().StringVar(&userID, "user", "", "identidad para persistir el transcript")

	root.AddCommand(newChatCmd(), newActionCmd(), newComposeCmd(), newEventsCmd())

	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}

// streamPrinter imprime solo el delta de la respuesta en curso. Si el texto
// deja de ser un prefijo (reemplazo por el mensaje de fallo), reimprime.
type streamPrinter struct {
	printed string
}

func (p *streamPrinter) OnChange(t domain.Transcript) {
	if len(t) == 0 {
		return
	}
	reply := t[len(t)-1].Text
	if strings.HasPrefix(reply, p.printed) {
		fmt.Print(reply[len(p.printed):])
	} else {
		fmt.Print("\n" + reply)
	}
	p.printed = reply
}

func runExchange(ctx context.Context, relay *client.RelayClient, logger *zap.Logger, history domain.Transcript, userText string, open func() (*stream.Decoder, func(), error)) domain.Transcript {
	dec, closeBody, err := open()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return history
	}
	defer closeBody()

	printer := &streamPrinter{}
	asm := client.Assembler{
		UserID:   userID,
		Saver:    relay,
		OnChange: printer.OnChange,
		Logger:   logger,
	}

	ex := asm.Run(ctx, client.Begin(history, userText), dec)
	fmt.Println()
	return ex.Transcript
}

func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Chat interactivo con el asistente",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger, _ := zap.NewDevelopment()
			defer logger.Sync()

			relay := client.NewRelayClient(serverURL, nil)

			// Carga única del historial al montar, como la vista de chat.
			var history domain.Transcript
			if userID != "" {
				loaded, err := relay.LoadTranscript(ctx, userID)
				if err != nil {
					logger.Warn("load history failed", zap.Error(err))
				} else {
					history = loaded
				}
			}
			if len(history) == 0 {
				history = domain.Transcript{{Author: domain.AuthorAI, Text: "Hello! How can I help you today?"}}
			}
			for _, msg := range history {
				fmt.Printf("[%s] %s\n", msg.Author, msg.Text)
			}

			reader := bufio.NewReader(os.Stdin)
			for {
				fmt.Print("> ")
				line, err := reader.ReadString('\n')
				if err != nil {
					return nil
				}
				line = strings.TrimSpace(line)
				if line == "" || line == "/quit" {
					return nil
				}

				history = runExchange(ctx, relay, logger, history, line, func() (*stream.Decoder, func(), error) {
					body, err := relay.OpenChat(ctx, line, "")
					if err != nil {
						return nil, nil, err
					}
					return stream.NewDecoder(body), func() { body.Close() }, nil
				})
			}
		},
	}
}

func newActionCmd() *cobra.Command {
	var text string
	cmd := &cobra.Command{
		Use:       "action [rephrase|summarize]",
		Short:     "Acción puntual sobre un texto",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{domain.ActionRephrase, domain.ActionSummarize},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger, _ := zap.NewDevelopment()
			defer logger.Sync()

			relay := client.NewRelayClient(serverURL, nil)
			runExchange(ctx, relay, logger, nil, "", func() (*stream.Decoder, func(), error) {
				body, err := relay.OpenAction(ctx, args[0], text)
				if err != nil {
					return nil, nil, err
				}
				return stream.NewDecoder(body), func() { body.Close() }, nil
			})
			return nil
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "texto de entrada")
	_ = cmd.MarkFlagRequired("text")
	return cmd
}

func newComposeCmd() *cobra.Command {
	var compose domain.ComposeContext
	cmd := &cobra.Command{
		Use:       "compose [formal_email|tweet_ideas]",
		Short:     "Genera contenido desde una plantilla",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{domain.TemplateFormalEmail, domain.TemplateTweetIdeas},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger, _ := zap.NewDevelopment()
			defer logger.Sync()

			relay := client.NewRelayClient(serverURL, nil)
			runExchange(ctx, relay, logger, nil, "", func() (*stream.Decoder, func(), error) {
				body, err := relay.OpenCompose(ctx, args[0], compose)
				if err != nil {
					return nil, nil, err
				}
				return stream.NewDecoder(body), func() { body.Close() }, nil
			})
			return nil
		},
	}
	cmd.Flags().StringVar(&compose.To, "to", "", "destinatario (formal_email)")
	cmd.Flags().StringVar(&compose.Subject, "subject", "", "asunto (formal_email)")
	cmd.Flags().StringVar(&compose.Points, "points", "", "puntos clave (formal_email)")
	cmd.Flags().StringVar(&compose.Topic, "topic", "", "tema (tweet_ideas)")
	return cmd
}

func newEventsCmd() *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Eventos de calendario vía el relay",
	}
	cmd.PersistentFlags().StringVar(&token, "token", "", "bearer OAuth de Google del usuario")
	_ = cmd.MarkPersistentFlagRequired("token")

	list := &cobra.Command{
		Use:   "list",
		Short: "Lista los próximos eventos",
		RunE: func(cmd *cobra.Command, args []string) error {
			relay := client.NewRelayClient(serverURL, nil)
			events, err := relay.ListEvents(cmd.Context(), token)
			if err != nil {
				return err
			}
			for _, ev := range events {
				fmt.Printf("%s  %s\n", ev.Start.DateTime, ev.Summary)
			}
			return nil
		},
	}

	create := &cobra.Command{
		Use:   "create [text]",
		Short: "Crea un evento desde texto libre",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			relay := client.NewRelayClient(serverURL, nil)
			message, err := relay.CreateEvent(cmd.Context(), token, strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Println(message)
			return nil
		},
	}

	cmd.AddCommand(list, create)
	return cmd
}
