package device

/*------------------------------------------------------------------
 *
 * Purpose:	Announce a running RyFi link over mDNS/DNS-SD, per the
 *		DOMAIN STACK's brutella/dnssd entry.
 *
 * Description:	Direct descendant of the teacher's dns_sd.go, which
 *		announces a KISS-over-TCP service the same way: build a
 *		dnssd.Config, wrap it in a Service, add it to a Responder,
 *		and run the responder in a goroutine. RyFi has no KISS TCP
 *		port to announce -- the monitor UDP export is the nearest
 *		equivalent surface -- so the service type and the payload
 *		(the monitor port rather than a TNC port) change; the
 *		announce/responder shape does not.
 *
 *------------------------------------------------------------------*/

import (
	"context"
	"fmt"

	"github.com/brutella/dnssd"
	"github.com/charmbracelet/log"
)

// ServiceType is the DNS-SD service type RyFi instances announce
// themselves under, so a monitoring tool can discover a running link
// without being told its host and port out of band.
const ServiceType = "_ryfi-monitor._udp"

// Announcer holds the running mDNS responder for one announced service.
type Announcer struct {
	cancel context.CancelFunc
}

// Announce advertises a RyFi instance's monitor UDP port under name (the
// local hostname is used if name is empty, matching dnssd's own
// default-naming behavior).
func Announce(name string, monitorPort int) (*Announcer, error) {
	cfg := dnssd.Config{ //nolint:exhaustruct
		Name: name,
		Type: ServiceType,
		Port: monitorPort,
	}

	sv, err := dnssd.NewService(cfg)
	if err != nil {
		return nil, fmt.Errorf("dns-sd: creating service: %w", err)
	}

	rp, err := dnssd.NewResponder()
	if err != nil {
		return nil, fmt.Errorf("dns-sd: creating responder: %w", err)
	}

	if _, err := rp.Add(sv); err != nil {
		return nil, fmt.Errorf("dns-sd: adding service: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	lg := log.Default().WithPrefix("device.discovery")

	lg.Info("announcing monitor service", "type", ServiceType, "port", monitorPort)

	go func() {
		if err := rp.Respond(ctx); err != nil && ctx.Err() == nil {
			lg.Error("responder stopped", "err", err)
		}
	}()

	return &Announcer{cancel: cancel}, nil
}

// Close stops announcing the service.
func (a *Announcer) Close() error {
	a.cancel()

	return nil
}
