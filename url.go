package reql

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ConnectOptsFromURL parses a connection URL of the form
// rethinkdb://[user:pass@]host[:port]/[db]?[opts] (spec.md §6) into a
// ConnectOpts. Recognized query parameters: timeout, auth_key (used as
// Password when no userinfo password is given), fetch_mode, and
// unwrap_lists.
func ConnectOptsFromURL(raw string) (*ConnectOpts, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, wrapDriverError(err)
	}
	if u.Scheme != "rethinkdb" {
		return nil, newDriverError("reql: unsupported connection URL scheme %q", u.Scheme)
	}

	host := u.Hostname()
	if host == "" {
		return nil, newDriverError("reql: connection URL missing host")
	}
	port := DefaultPort
	if p := u.Port(); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, newDriverError("reql: invalid port %q", p)
		}
		port = n
	}

	opts := &ConnectOpts{Host: NewHost(host, port)}

	if u.User != nil {
		opts.Username = u.User.Username()
		if pw, ok := u.User.Password(); ok {
			opts.Password = pw
		}
	}

	if db := strings.TrimPrefix(u.Path, "/"); db != "" {
		opts.Database = db
	}

	q := u.Query()
	if opts.Password == "" {
		if key := q.Get("auth_key"); key != "" {
			opts.Password = key
		}
	}
	if t := q.Get("timeout"); t != "" {
		secs, err := strconv.Atoi(t)
		if err != nil {
			return nil, newDriverError("reql: invalid timeout %q", t)
		}
		opts.Timeout = time.Duration(secs) * time.Second
	}
	switch q.Get("fetch_mode") {
	case "aggressive":
		opts.DefaultFetchMode = FetchAggressive
	case "lazy":
		opts.DefaultFetchMode = FetchLazy
	case "preemptive_half":
		opts.DefaultFetchMode = FetchPreemptiveHalf
	}
	if q.Get("unwrap_lists") == "true" {
		opts.UnwrapLists = true
	}

	return opts, nil
}
