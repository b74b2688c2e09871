// Package netcfg models the subscription-level network configuration
// document: an XML document listing every virtual network site, its owning
// affinity group, address space and subnets.
//
// The document is treated as an immutable value. Transformations return a
// new Document, so an aborted reconciliation can never leave a
// half-patched document behind; the provider only ever sees the document
// submitted whole. The schema is fixed by the provider and is only ever
// appended to or patched attribute-wise, never restructured.
package netcfg

import (
	"encoding/xml"
	"fmt"
)

// Subnet is one named subnet of a virtual network site.
type Subnet struct {
	Name          string `xml:"name,attr"`
	AddressPrefix string `xml:"AddressPrefix"`
}

// Site is one virtual network site element.
type Site struct {
	Name            string   `xml:"name,attr"`
	AffinityGroup   string   `xml:"AffinityGroup,attr"`
	AddressPrefixes []string `xml:"AddressSpace>AddressPrefix"`
	Subnets         []Subnet `xml:"Subnets>Subnet"`
}

// Document is the root network configuration element.
type Document struct {
	XMLName xml.Name `xml:"NetworkConfiguration"`
	Sites   []Site   `xml:"VirtualNetworkConfiguration>VirtualNetworkSites>VirtualNetworkSite"`
}

// New returns the canonical empty skeleton: a root configuration element
// with an empty site list.
func New() Document {
	return Document{}
}

// Decode parses a serialized network configuration document.
func Decode(data []byte) (Document, error) {
	var doc Document
	if err := xml.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("failed to parse network configuration: %w", err)
	}
	return doc, nil
}

// Encode serializes the document for submission.
func (d Document) Encode() ([]byte, error) {
	data, err := xml.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize network configuration: %w", err)
	}
	return append([]byte(xml.Header), data...), nil
}

// FindSite returns the site with the given name, if present.
func (d Document) FindSite(name string) (Site, bool) {
	for _, site := range d.Sites {
		if site.Name == name {
			return site, true
		}
	}
	return Site{}, false
}

// WithSite returns a document guaranteed to contain the given site. If a
// site with the same name already exists, only its affinity-group
// attribute is patched; the existing address space and subnets are kept.
// Otherwise the site is appended as-is.
func (d Document) WithSite(site Site) Document {
	out := d.clone()
	for i, existing := range out.Sites {
		if existing.Name == site.Name {
			out.Sites[i].AffinityGroup = site.AffinityGroup
			return out
		}
	}
	out.Sites = append(out.Sites, site)
	return out
}

// WithSiteAffinityGroup returns a document with the named site re-homed to
// another affinity group. Unknown site names are a no-op.
func (d Document) WithSiteAffinityGroup(siteName, affinityGroup string) Document {
	out := d.clone()
	for i, existing := range out.Sites {
		if existing.Name == siteName {
			out.Sites[i].AffinityGroup = affinityGroup
		}
	}
	return out
}

func (d Document) clone() Document {
	out := Document{XMLName: d.XMLName}
	if d.Sites == nil {
		return out
	}
	out.Sites = make([]Site, len(d.Sites))
	copy(out.Sites, d.Sites)
	for i := range out.Sites {
		site := &out.Sites[i]
		site.AddressPrefixes = append([]string(nil), site.AddressPrefixes...)
		site.Subnets = append([]Subnet(nil), site.Subnets...)
	}
	return out
}
