package net

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/hashicorp/mdns"
)

const ServiceType = "_pixelboard._tcp"

// Advertise announces the remote-control service on the local network.
// The caller shuts the returned server down.
func Advertise(port int, shareLink string) (*mdns.Server, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("could not get hostname: %w", err)
	}

	info := []string{"PixelBoard", shareLink}
	service, err := mdns.NewMDNSService(host, ServiceType, "", "", port, nil, info)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("failed to start mDNS server: %w", err)
	}
	log.Printf("[NET] Advertising %s on port %d", ServiceType, port)
	return server, nil
}

// AdvertiseUntil advertises until ctx is done.
func AdvertiseUntil(ctx context.Context, port int, shareLink string) error {
	server, err := Advertise(port, shareLink)
	if err != nil {
		return err
	}
	<-ctx.Done()
	return server.Shutdown()
}

// Browse looks for hosts for timeout and returns their addresses.
func Browse(timeout time.Duration) ([]string, error) {
	entries := make(chan *mdns.ServiceEntry, 8)
	var found []string
	done := make(chan struct{})
	go func() {
		defer close(done)
		for e := range entries {
			if e.AddrV4 == nil || e.Port == 0 {
				continue
			}
			found = append(found, fmt.Sprintf("%s:%d", e.AddrV4.String(), e.Port))
		}
	}()

	params := mdns.DefaultParams(ServiceType)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true
	err := mdns.Query(params)
	close(entries)
	<-done
	if err != nil {
		return nil, fmt.Errorf("mdns query: %w", err)
	}
	return found, nil
}
