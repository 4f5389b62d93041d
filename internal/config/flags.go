package config

import (
	"errors"
	"flag"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// NetAddress is a host:port flag value.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses os.Args.
func ParseFlags() (*StructuredConfig, error) {
	return parseFlags(os.Args[1:])
}

// parseFlags parses the command line.
//
// Flags:
//
//	-a server address host:port
//	-s feed server address used by the client
//	-r redis address host:port
//	-d database DSN (postgres on the server, sqlite file on the client)
//	-c/-config json file path with configs
//	-token-sign-key, -token-issuer, -token-duration
//	-request-timeout, -mutation-timeout
//	-page-size, -refresh-interval, -log-level
func parseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("list-feed", flag.ContinueOnError)

	var serverAddress, adapterAddress, redisAddress NetAddress
	var databaseDSN, jsonConfigPath string
	var tokenSignKey, tokenIssuer, logLevel string
	var tokenDuration, requestTimeout, mutationTimeout, refreshInterval time.Duration
	var pageSize int

	fs.Var(&serverAddress, "a", "Server net address host:port")
	fs.Var(&adapterAddress, "s", "Feed server address used by the client host:port")
	fs.Var(&redisAddress, "r", "Redis address host:port")
	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&tokenSignKey, "token-sign-key", "", "Token signing key")
	fs.StringVar(&tokenIssuer, "token-issuer", "", "Token issuer")
	fs.DurationVar(&tokenDuration, "token-duration", 0, "Token duration (e.g., 1h, 30m)")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.DurationVar(&mutationTimeout, "mutation-timeout", 0, "Optimistic mutation commit timeout")
	fs.DurationVar(&refreshInterval, "refresh-interval", 0, "Client resync interval")
	fs.IntVar(&pageSize, "page-size", 0, "Feed page size")
	fs.StringVar(&logLevel, "log-level", "", "Log level")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return &StructuredConfig{
		App: App{
			TokenSignKey:  tokenSignKey,
			TokenIssuer:   tokenIssuer,
			TokenDuration: tokenDuration,
			LogLevel:      logLevel,
		},
		Storage: Storage{DB: DB{DSN: databaseDSN}},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Realtime: Realtime{Address: redisAddress.String()},
		Adapter: Adapter{
			HTTPAddress:     adapterAddress.String(),
			RequestTimeout:  requestTimeout,
			MutationTimeout: mutationTimeout,
		},
		Feed:         Feed{PageSize: pageSize},
		Workers:      Workers{RefreshInterval: refreshInterval},
		JSONFilePath: jsonConfigPath,
	}, nil
}

func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses host:port. Hosts other than "localhost" must be IP addresses.
func (a *NetAddress) Set(s string) error {
	host, portStr, found := strings.Cut(s, ":")
	if !found || strings.Contains(portStr, ":") {
		return errors.New("need address in a form `host:port`")
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" && net.ParseIP(host) == nil {
		return errors.New("incorrect IP-address provided")
	}

	a.Host = host
	a.Port = port
	return nil
}
