package handlers

import (
	"context"
	"fmt"
	"io"

	"github.com/fleetadm/fleetadm/internal/provisioning/netsite"
)

// NetworkParams identifies the virtual network site to reconcile.
type NetworkParams struct {
	Site          string
	Subnet        string
	AffinityGroup string
	AddressPrefix string
	SubnetPrefix  string
}

// NetworkEnsure reconciles one virtual network site.
func NetworkEnsure(ctx context.Context, configPath string, p NetworkParams) error {
	pctx, err := newWorkflowContext(ctx, configPath)
	if err != nil {
		return err
	}
	if err := netsite.EnsureSite(pctx, netsite.Params{
		SiteName:      p.Site,
		SubnetName:    p.Subnet,
		AffinityGroup: p.AffinityGroup,
		AddressPrefix: p.AddressPrefix,
		SubnetPrefix:  p.SubnetPrefix,
	}); err != nil {
		return err
	}
	pctx.State.SiteName = p.Site
	return nil
}

// NetworkExport writes the current network configuration document to w.
func NetworkExport(ctx context.Context, configPath string, w io.Writer) error {
	pctx, err := newWorkflowContext(ctx, configPath)
	if err != nil {
		return err
	}

	doc, err := pctx.Dir.GetNetworkConfiguration(pctx)
	if err != nil {
		return fmt.Errorf("network configuration fetch: %w", err)
	}
	data, err := doc.Encode()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}
