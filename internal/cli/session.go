package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/serroba/miniurl/internal/shortener"
)

// Service is the part of shortener.Service the interactive session drives.
type Service interface {
	RegisterOwner(ctx context.Context) (shortener.OwnerID, error)
	OwnerExists(ctx context.Context, owner shortener.OwnerID) bool
	Shorten(ctx context.Context, url string, owner shortener.OwnerID, ttl time.Duration, maxVisits int) (*shortener.Entry, error)
	Edit(ctx context.Context, code shortener.Code, owner shortener.OwnerID, ttl time.Duration, maxVisits int) error
	Remove(ctx context.Context, code shortener.Code, owner shortener.OwnerID) error
	Resolve(ctx context.Context, code shortener.Code) (*shortener.Entry, error)
	List(ctx context.Context, owner shortener.OwnerID) ([]shortener.Code, error)
}

const prompt = "\ncommand: "

const usage = `=== Commands ===
help                                 show this help
exit                                 quit
login   <ownerID>                    act as the owner with id <ownerID>
list                                 list your active codes
shorten <url> <ttlSecs> <maxVisits>  shorten <url>; it stops resolving after <ttlSecs> seconds or <maxVisits> visits
edit    <code> <ttlSecs> <maxVisits> reset expiry and visit budget of <code>
visit   <code>                       resolve <code> and print the original URL
remove  <code>                       delete <code>`

const (
	msgInvalidArgs  = "invalid command arguments"
	msgUnauthorized = "not logged in or not the owner"
)

// Session is an interactive, line-oriented front end over the alias service.
// It holds the current owner between commands.
type Session struct {
	svc   Service
	in    *bufio.Scanner
	out   io.Writer
	owner shortener.OwnerID
}

// NewSession reads commands from in and writes replies to out.
func NewSession(svc Service, in io.Reader, out io.Writer) *Session {
	return &Session{
		svc: svc,
		in:  bufio.NewScanner(in),
		out: out,
	}
}

// Owner returns the owner the session currently acts as, or "" before login.
func (s *Session) Owner() shortener.OwnerID {
	return s.owner
}

// Run processes commands until exit, end of input or ctx cancellation.
// Cancellation ends the session even while it waits for input.
func (s *Session) Run(ctx context.Context) error {
	s.println(usage)

	lines := make(chan string)
	readErr := make(chan error, 1)
	stop := make(chan struct{})

	defer close(stop)

	go s.read(lines, readErr, stop)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(s.out, prompt)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-readErr:
			return err
		case line := <-lines:
			if s.Execute(ctx, line) {
				return nil
			}
		}
	}
}

// read feeds input lines to Run until end of input or stop is closed.
func (s *Session) read(lines chan<- string, errs chan<- error, stop <-chan struct{}) {
	for s.in.Scan() {
		select {
		case lines <- s.in.Text():
		case <-stop:
			return
		}
	}

	errs <- s.in.Err()
}

// Execute runs a single command line and reports whether the session should end.
func (s *Session) Execute(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "help":
		s.println(usage)
	case "exit":
		return true
	case "login":
		s.login(ctx, args)
	case "list":
		s.list(ctx)
	case "shorten":
		s.shorten(ctx, args)
	case "edit":
		s.edit(ctx, args)
	case "visit":
		s.visit(ctx, args)
	case "remove":
		s.remove(ctx, args)
	default:
		s.println("unknown command")
	}

	return false
}

func (s *Session) login(ctx context.Context, args []string) {
	if len(args) != 1 {
		s.println(msgInvalidArgs)

		return
	}

	owner := shortener.OwnerID(args[0])
	if !s.svc.OwnerExists(ctx, owner) {
		s.println("owner does not exist")

		return
	}

	s.owner = owner
	s.println("logged in")
}

func (s *Session) list(ctx context.Context) {
	if s.owner == "" {
		s.println(msgUnauthorized)

		return
	}

	codes, err := s.svc.List(ctx, s.owner)
	if err != nil {
		s.fail(err)

		return
	}

	s.println(fmt.Sprintf("you have %d active codes:", len(codes)))

	for _, code := range codes {
		fmt.Fprintf(s.out, "\t- %s\n", code)
	}
}

func (s *Session) shorten(ctx context.Context, args []string) {
	if len(args) != 3 {
		s.println(msgInvalidArgs)

		return
	}

	ttl, maxVisits, ok := parseLimits(args[1], args[2])
	if !ok {
		s.println(msgInvalidArgs)

		return
	}

	url, err := shortener.NormalizeURL(args[0])
	if err != nil {
		s.println("invalid url")

		return
	}

	if s.owner == "" {
		owner, err := s.svc.RegisterOwner(ctx)
		if err != nil {
			s.fail(err)

			return
		}

		s.owner = owner
		s.println("registered as " + string(owner))
	}

	entry, err := s.svc.Shorten(ctx, url, s.owner, ttl, maxVisits)
	if err != nil {
		s.fail(err)

		return
	}

	s.println("your code: " + string(entry.Code))
}

func (s *Session) edit(ctx context.Context, args []string) {
	if len(args) != 3 {
		s.println(msgInvalidArgs)

		return
	}

	ttl, maxVisits, ok := parseLimits(args[1], args[2])
	if !ok {
		s.println(msgInvalidArgs)

		return
	}

	if s.owner == "" {
		s.println(msgUnauthorized)

		return
	}

	if err := s.svc.Edit(ctx, shortener.Code(args[0]), s.owner, ttl, maxVisits); err != nil {
		s.fail(err)

		return
	}

	s.println("alias updated")
}

func (s *Session) visit(ctx context.Context, args []string) {
	if len(args) != 1 {
		s.println(msgInvalidArgs)

		return
	}

	entry, err := s.svc.Resolve(ctx, shortener.Code(args[0]))
	if err != nil {
		s.fail(err)

		return
	}

	s.println(entry.URL)
}

func (s *Session) remove(ctx context.Context, args []string) {
	if len(args) != 1 {
		s.println(msgInvalidArgs)

		return
	}

	if s.owner == "" {
		s.println(msgUnauthorized)

		return
	}

	if err := s.svc.Remove(ctx, shortener.Code(args[0]), s.owner); err != nil {
		s.fail(err)

		return
	}

	s.println("alias removed")
}

func (s *Session) fail(err error) {
	switch {
	case errors.Is(err, shortener.ErrNotOwned), errors.Is(err, shortener.ErrUnknownOwner):
		s.println(msgUnauthorized)
	case errors.Is(err, shortener.ErrInactive):
		s.println("alias reached its visit limit or expired")
	default:
		s.println("error: " + err.Error())
	}
}

func (s *Session) println(msg string) {
	for line := range strings.SplitSeq(msg, "\n") {
		fmt.Fprintln(s.out, "> "+line)
	}
}

// parseLimits reads a ttl in seconds and a visit budget. A ttl too large to
// represent saturates and is later capped by the store ceiling.
func parseLimits(ttlArg, visitsArg string) (time.Duration, int, bool) {
	ttl, err := strconv.ParseInt(ttlArg, 10, 64)
	if errors.Is(err, strconv.ErrRange) && ttl > 0 {
		err = nil
	}

	if err != nil || ttl < 0 {
		return 0, 0, false
	}

	maxVisits, err := strconv.Atoi(visitsArg)
	if err != nil || maxVisits < 0 {
		return 0, 0, false
	}

	return shortener.TTLFromSeconds(ttl), maxVisits, true
}
