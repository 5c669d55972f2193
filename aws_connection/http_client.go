package aws_connection

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/rs/dnscache"
	"golang.org/x/sync/semaphore"
)

const (
	EnvDnsLookupMaxParallel        = "CLOUDWATCH_LOGS_AWS_DNS_LOOKUP_MAX_PARALLEL"
	EnvDnsCacheRefreshIntervalSecs = "CLOUDWATCH_LOGS_AWS_DNS_CACHE_REFRESH_INTERVAL_SECS"
	EnvHttpMaxConnsPerHost         = "CLOUDWATCH_LOGS_AWS_HTTP_TRANSPORT_MAX_CONNS_PER_HOST"

	defaultDnsLookupMaxParallel        = 25
	defaultDnsCacheRefreshIntervalSecs = 300
	defaultHttpMaxConnsPerHost         = 5000
)

// httpClientOptions tunes the transport shared by the CloudWatch Logs clients of a job
type httpClientOptions struct {
	// max number of parallel DNS lookups
	DnsLookupMaxParallel int
	// 0 disables refresh, -1 disables the DNS cache
	DnsCacheRefreshIntervalSecs int
	// 0 removes the limit
	MaxConnsPerHost int
}

func (c *Connection) httpClientOptions() httpClientOptions {
	return httpClientOptions{
		DnsLookupMaxParallel:        getConfigOrEnvInt(c.DnsLookupMaxParallel, EnvDnsLookupMaxParallel, defaultDnsLookupMaxParallel),
		DnsCacheRefreshIntervalSecs: getConfigOrEnvInt(c.DnsCacheRefreshIntervalSecs, EnvDnsCacheRefreshIntervalSecs, defaultDnsCacheRefreshIntervalSecs),
		MaxConnsPerHost:             getConfigOrEnvInt(c.HttpMaxConnsPerHost, EnvHttpMaxConnsPerHost, defaultHttpMaxConnsPerHost),
	}
}

// every task of a job opens its own client; clients with the same options share one
// transport so that they share the DNS cache and the per host connection limit
var (
	httpClientsMut sync.Mutex
	httpClients    = make(map[httpClientOptions]*awshttp.BuildableClient)
)

func sharedHTTPClient(opts httpClientOptions) *awshttp.BuildableClient {
	httpClientsMut.Lock()
	defer httpClientsMut.Unlock()

	if client, ok := httpClients[opts]; ok {
		return client
	}
	client := newHTTPClient(opts)
	httpClients[opts] = client
	return client
}

func newHTTPClient(opts httpClientOptions) *awshttp.BuildableClient {
	slog.Debug("newHTTPClient", "dns_lookup_max_parallel", opts.DnsLookupMaxParallel, "dns_cache_refresh_interval_secs", opts.DnsCacheRefreshIntervalSecs, "max_conns_per_host", opts.MaxConnsPerHost)

	client := awshttp.NewBuildableClient()
	if opts.MaxConnsPerHost > 0 {
		client = client.WithTransportOptions(func(tr *http.Transport) {
			tr.MaxConnsPerHost = opts.MaxConnsPerHost
		})
	}
	if opts.DnsCacheRefreshIntervalSecs < 0 {
		return client
	}

	resolver := &dnscache.Resolver{}
	if opts.DnsCacheRefreshIntervalSecs > 0 {
		go func() {
			t := time.NewTicker(time.Duration(opts.DnsCacheRefreshIntervalSecs) * time.Second)
			defer t.Stop()
			for range t.C {
				resolver.Refresh(true)
			}
		}()
	}

	sem := semaphore.NewWeighted(int64(max(opts.DnsLookupMaxParallel, 1)))
	dialer := client.GetDialer()
	return client.WithTransportOptions(func(tr *http.Transport) {
		tr.DialContext = func(ctx context.Context, network string, addr string) (net.Conn, error) {
			host, port, err := net.SplitHostPort(addr)
			if err != nil {
				return nil, err
			}

			if err := sem.Acquire(ctx, 1); err != nil {
				return nil, err
			}
			ips, err := resolver.LookupHost(ctx, host)
			sem.Release(1)
			if err != nil {
				return nil, err
			}
			if len(ips) == 0 {
				return nil, fmt.Errorf("no addresses found for host %s", host)
			}

			// first address which connects wins
			var conn net.Conn
			for _, ip := range ips {
				conn, err = dialer.DialContext(ctx, network, net.JoinHostPort(ip, port))
				if err == nil {
					return conn, nil
				}
			}
			return nil, err
		}
	})
}
