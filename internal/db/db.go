// Package db keeps a small pool of OxiDB connections alive.
package db

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/parisxmas/oxidocs/internal/oxidb"
)

// Dialer opens one OxiDB connection.
type Dialer func() (*oxidb.Client, error)

// TCPDialer dials host:port with a 5 second timeout.
func TCPDialer(host string, port int) Dialer {
	return func() (*oxidb.Client, error) {
		return oxidb.Connect(host, port, 5*time.Second)
	}
}

// Pool is a round-robin connection pool for OxiDB with auto-reconnect.
type Pool struct {
	dial      Dialer
	clients   []*oxidb.Client
	mu        []sync.RWMutex
	idx       uint64
	stop      chan struct{}
	closeOnce sync.Once
}

// NewPool opens size connections and starts pinging them every interval.
// A zero interval disables the keepalive loop.
func NewPool(dial Dialer, size int, interval time.Duration) (*Pool, error) {
	if size < 1 {
		size = 1
	}
	p := &Pool{
		dial:    dial,
		clients: make([]*oxidb.Client, size),
		mu:      make([]sync.RWMutex, size),
		stop:    make(chan struct{}),
	}
	for i := 0; i < size; i++ {
		c, err := dial()
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("pool: connect client %d: %w", i, err)
		}
		p.clients[i] = c
	}
	if interval > 0 {
		go p.keepalive(interval)
	}
	return p, nil
}

// Get returns the next client in round-robin order.
func (p *Pool) Get() *oxidb.Client {
	n := atomic.AddUint64(&p.idx, 1)
	i := int(n % uint64(len(p.clients)))
	p.mu[i].RLock()
	defer p.mu[i].RUnlock()
	return p.clients[i]
}

// Ping checks one connection.
func (p *Pool) Ping(ctx context.Context) error {
	_, err := p.Get().Ping(ctx)
	return err
}

func (p *Pool) reconnect(i int) {
	p.mu[i].Lock()
	defer p.mu[i].Unlock()
	if p.clients[i] != nil {
		p.clients[i].Close()
	}
	c, err := p.dial()
	if err != nil {
		log.Printf("pool: reconnect client %d failed: %v", i, err)
		return
	}
	p.clients[i] = c
}

func (p *Pool) keepalive(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-p.stop:
			return
		case <-ticker.C:
			for i := range p.clients {
				p.mu[i].RLock()
				c := p.clients[i]
				p.mu[i].RUnlock()
				ctx, cancel := context.WithTimeout(context.Background(), interval)
				_, err := c.Ping(ctx)
				cancel()
				if err != nil {
					log.Printf("pool: client %d ping failed, reconnecting: %v", i, err)
					p.reconnect(i)
				}
			}
		}
	}
}

// Close closes all connections.
func (p *Pool) Close() error {
	p.closeOnce.Do(func() {
		close(p.stop)
		for i, c := range p.clients {
			p.mu[i].Lock()
			if c != nil {
				c.Close()
			}
			p.mu[i].Unlock()
		}
	})
	return nil
}
