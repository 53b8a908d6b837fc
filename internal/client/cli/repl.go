package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Me(ctx context.Context) error
	Status(ctx context.Context) error
	Refresh(ctx context.Context) error
	Can(ctx context.Context, permission string) error
	Role(ctx context.Context, role string) error
}

// runREPL reads one command per line and dispatches it until "exit",
// "quit" or end of input. Command errors are reported by the commands.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("admin %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: me, status, refresh, can <permission>, role <role>, logout, exit")
			} else {
				printlnFn("Available commands: login, status, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "me":
			_ = a.Me(ctx)

		case "status":
			_ = a.Status(ctx)

		case "refresh":
			_ = a.Refresh(ctx)

		case "can":
			if len(args) == 0 {
				printlnFn("Usage: can <permission>")
				continue
			}
			_ = a.Can(ctx, args[0])

		case "role":
			if len(args) == 0 {
				printlnFn("Usage: role <role>")
				continue
			}
			_ = a.Role(ctx, args[0])

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
