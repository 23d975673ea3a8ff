package verifier

import (
	"bufio"
	"context"
	"crypto/rand"
	"crypto/tls"
	"errors"
	"fmt"
	"math/big"
	"net"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/proxy"
)

// SMTPOutcome is the result of running C6 against one MX host.
type SMTPOutcome struct {
	CanConnect    bool
	IsDeliverable bool
	IsCatchAll    bool
	HasFullInbox  bool
	IsDisabled    bool
	ProviderUsed  string
	RawReplyOrErr string
	Classification ReplyClassification
	ErrKind       ErrorKind
}

// SMTPOptions configures a single C6 session. Zero value is invalid; build
// one via DefaultSMTPOptions or the provider-tuned constructor.
type SMTPOptions struct {
	FromEmail       string
	HelloName       string
	Ports           []int
	ConnectTimeout  time.Duration
	CommandTimeout  time.Duration
	OverallTimeout  time.Duration
	Retries         int
	AttemptStartTLS bool
	LenientTLS      bool
	EnableVRFY      bool
	ProxyURI        string
}

// DefaultSMTPOptions mirrors the teacher's fluent-builder defaults
// (test@example.com / example.com), unmoored from any provider tuning.
func DefaultSMTPOptions() SMTPOptions {
	return SMTPOptions{
		FromEmail:      defaultFromEmail,
		HelloName:      defaultHelloName,
		Ports:          []int{25, 587},
		ConnectTimeout: 10 * time.Second,
		CommandTimeout: 10 * time.Second,
		OverallTimeout: 20 * time.Second,
		Retries:        2,
	}
}

// TunedSMTPOptions applies the per-provider defaults of spec.md §4.6's
// table on top of a base SMTPOptions (FromEmail/HelloName/ProxyURI carry
// over from base; everything tuning-related is overwritten).
func TunedSMTPOptions(base SMTPOptions, tag ProviderTag) SMTPOptions {
	t := tuningFor(tag)
	base.Ports = t.ports
	base.ConnectTimeout = t.connectTimeout
	base.Retries = t.retries
	base.AttemptStartTLS = t.startTLS
	return base
}

// SMTPSession runs C6 against a single mxHost for a single (local, domain)
// pair, with retries per spec.md §4.6 ("transport-class failure ... retry
// with exponential backoff, base 1s").
type SMTPSession struct {
	Opts        SMTPOptions
	ProviderTag ProviderTag
}

// NewSMTPSession builds a session; opts should usually come from
// TunedSMTPOptions unless the caller supplies an explicit sequence.
func NewSMTPSession(opts SMTPOptions, tag ProviderTag) *SMTPSession {
	return &SMTPSession{Opts: opts, ProviderTag: tag}
}

// Verify runs the full step sequence against mxHost:port, retrying
// transport-class failures with exponential backoff. It never caches the
// catch-all probe's random local part across attempts (spec.md §4.6:
// "regenerated per session").
func (s *SMTPSession) Verify(ctx context.Context, local, domain, mxHost string) SMTPOutcome {
	var last SMTPOutcome
	attempts := s.Opts.Retries + 1
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			timer := time.NewTimer(backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return SMTPOutcome{ErrKind: ErrKindCancelled}
			case <-timer.C:
			}
		}

		outcome, retryable := s.attempt(ctx, local, domain, mxHost)
		last = outcome
		if !retryable {
			return outcome
		}
	}
	return last
}

// attempt performs one full connection + step sequence. The bool return
// reports whether the attempt should be retried: true for transport-class
// failures and for 4xx replies to MAIL FROM or the target RCPT TO.
func (s *SMTPSession) attempt(ctx context.Context, local, domain, mxHost string) (SMTPOutcome, bool) {
	port := firstPort(s.Opts.Ports)

	conn, err := s.dial(ctx, mxHost, port)
	if err != nil {
		kind := classifyDialError(err)
		return SMTPOutcome{ErrKind: kind, RawReplyOrErr: err.Error()}, true
	}
	defer conn.Close()

	overallDeadline := time.Now().Add(s.Opts.OverallTimeout)
	conn.SetDeadline(overallDeadline)

	r := bufio.NewReader(conn)

	// GREETING
	code, text, err := readReply(r)
	if err != nil {
		return SMTPOutcome{ErrKind: ErrKindReadTimeout, RawReplyOrErr: err.Error()}, true
	}
	if code != 220 {
		return s.classifyNonRetryable(code, text), false
	}

	// EHLO, falling back to HELO on 5xx.
	caps, err := s.ehlo(conn, r, s.Opts.HelloName)
	if err != nil {
		return SMTPOutcome{ErrKind: ErrKindWriteFailure, RawReplyOrErr: err.Error()}, true
	}

	tlsOffered := caps["STARTTLS"]
	activeConn := conn
	activeReader := r

	if s.Opts.AttemptStartTLS && tlsOffered {
		upgraded, upgradedReader, err := s.startTLS(activeConn, mxHost)
		if err != nil {
			if !s.Opts.LenientTLS {
				return SMTPOutcome{ErrKind: ErrKindTLSFailure, RawReplyOrErr: err.Error()}, true
			}
			// Lenient: fall back to plaintext for the remainder of this
			// session only.
		} else {
			activeConn = upgraded
			activeReader = upgradedReader
			caps, err = s.ehlo(activeConn, activeReader, s.Opts.HelloName)
			if err != nil {
				return SMTPOutcome{ErrKind: ErrKindWriteFailure, RawReplyOrErr: err.Error()}, true
			}
			_ = caps
		}
	}

	// MAIL FROM
	code, text, err = command(activeConn, activeReader, "MAIL FROM:<"+s.Opts.FromEmail+">")
	if err != nil {
		return SMTPOutcome{ErrKind: ErrKindWriteFailure, RawReplyOrErr: err.Error()}, true
	}
	if code < 200 || code >= 300 {
		return s.classifyNonRetryable(code, text), IsRetryable(code)
	}

	// RCPT TO catch-all probe
	probeLocal := randomLocalPart(catchAllLocalLength)
	code, text, err = command(activeConn, activeReader, "RCPT TO:<"+probeLocal+"@"+domain+">")
	if err != nil {
		return SMTPOutcome{ErrKind: ErrKindWriteFailure, RawReplyOrErr: err.Error()}, true
	}
	if code >= 200 && code < 300 {
		quietQuit(activeConn, activeReader)
		return SMTPOutcome{
			CanConnect: true, IsDeliverable: true, IsCatchAll: true,
			RawReplyOrErr: text,
		}, false
	}

	// RCPT TO target probe
	code, text, err = command(activeConn, activeReader, "RCPT TO:<"+local+"@"+domain+">")
	if err != nil {
		return SMTPOutcome{ErrKind: ErrKindWriteFailure, RawReplyOrErr: err.Error()}, true
	}

	quietQuit(activeConn, activeReader)

	if code >= 200 && code < 300 {
		return SMTPOutcome{CanConnect: true, IsDeliverable: true, RawReplyOrErr: text}, false
	}

	outcome := s.classifyNonRetryable(code, text)
	outcome.CanConnect = true
	return outcome, IsRetryable(code)
}

func (s *SMTPSession) classifyNonRetryable(code int, text string) SMTPOutcome {
	cls := ClassifyReply(code, text, s.ProviderTag)
	outcome := SMTPOutcome{
		CanConnect:     true,
		Classification: cls,
		RawReplyOrErr:  text,
		ErrKind:        cls.OuterKind,
	}
	switch cls.Category {
	case CategoryDisabled, CategoryInvalid:
		outcome.IsDisabled = cls.Category == CategoryDisabled
	case CategoryFullInbox:
		outcome.HasFullInbox = true
	}
	return outcome
}

func (s *SMTPSession) dial(ctx context.Context, mxHost string, port int) (net.Conn, error) {
	addr := net.JoinHostPort(mxHost, strconv.Itoa(port))

	if s.Opts.ProxyURI != "" {
		dialer, err := proxy.SOCKS5("tcp", s.Opts.ProxyURI, nil, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("smtp: socks5 dialer: %w", err)
		}
		type contextDialer interface {
			DialContext(ctx context.Context, network, addr string) (net.Conn, error)
		}
		if cd, ok := dialer.(contextDialer); ok {
			return cd.DialContext(ctx, "tcp", addr)
		}
		return dialer.Dial("tcp", addr)
	}

	d := net.Dialer{Timeout: s.Opts.ConnectTimeout}
	return d.DialContext(ctx, "tcp", addr)
}

func (s *SMTPSession) ehlo(conn net.Conn, r *bufio.Reader, helo string) (map[string]bool, error) {
	code, text, err := command(conn, r, "EHLO "+helo)
	if err != nil {
		return nil, err
	}
	if code >= 500 {
		code, text, err = command(conn, r, "HELO "+helo)
		if err != nil {
			return nil, err
		}
		_ = code
		return map[string]bool{}, nil
	}
	return parseCapabilities(text), nil
}

func (s *SMTPSession) startTLS(conn net.Conn, mxHost string) (net.Conn, *bufio.Reader, error) {
	r := bufio.NewReader(conn)
	code, _, err := command(conn, r, "STARTTLS")
	if err != nil {
		return nil, nil, err
	}
	if code != 220 {
		return nil, nil, fmt.Errorf("smtp: starttls rejected: %d", code)
	}

	cfg := &tls.Config{ServerName: mxHost}
	if net.ParseIP(mxHost) != nil {
		cfg.ServerName = ""
		cfg.InsecureSkipVerify = true
	}
	tlsConn := tls.Client(conn, cfg)
	if err := tlsConn.HandshakeContext(context.Background()); err != nil {
		return nil, nil, err
	}
	return tlsConn, bufio.NewReader(tlsConn), nil
}

func quietQuit(conn net.Conn, r *bufio.Reader) {
	_, _, _ = command(conn, r, "QUIT")
}

// command writes one command line terminated by \r\n and reads the
// resulting reply, assembling multi-line continuations per spec.md §4.6's
// reply-framing rule.
func command(conn net.Conn, r *bufio.Reader, line string) (int, string, error) {
	if _, err := conn.Write([]byte(line + "\r\n")); err != nil {
		return 0, "", err
	}
	return readReply(r)
}

func readReply(r *bufio.Reader) (int, string, error) {
	var sb strings.Builder
	var code int
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return 0, "", err
		}
		line = strings.TrimRight(line, "\r\n")
		if len(line) < 4 {
			return 0, "", errors.New("smtp: malformed reply line")
		}
		c, err := strconv.Atoi(line[:3])
		if err != nil {
			return 0, "", fmt.Errorf("smtp: malformed reply code: %w", err)
		}
		code = c
		sb.WriteString(line[4:])
		if line[3] == ' ' {
			break
		}
		sb.WriteString("\n")
	}
	return code, sb.String(), nil
}

func parseCapabilities(text string) map[string]bool {
	caps := make(map[string]bool)
	for _, line := range strings.Split(text, "\n") {
		word := strings.ToUpper(strings.Fields(line)[0])
		if word != "" {
			caps[word] = true
		}
	}
	return caps
}

func firstPort(ports []int) int {
	if len(ports) == 0 {
		return 25
	}
	return ports[0]
}

// randomLocalPart generates a cryptographically random lowercase
// alphanumeric local part for the catch-all probe (spec.md §4.6: "drawn
// from a character set unlikely to collide with real users").
func randomLocalPart(length int) string {
	const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			// crypto/rand failure is effectively unrecoverable; fall back
			// to a fixed, clearly-synthetic local part rather than panic.
			return "xprobexprobexpr"[:length]
		}
		out[i] = alphabet[n.Int64()]
	}
	return string(out)
}

// classifyDialError maps a dial-time error into the transport ErrorKind
// taxonomy.
func classifyDialError(err error) ErrorKind {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrKindConnectTimeout
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "refused"):
		return ErrKindConnectRefused
	case strings.Contains(msg, "reset"):
		return ErrKindConnectReset
	default:
		return ErrKindConnectTimeout
	}
}
