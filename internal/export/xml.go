// =============================================================================
// rakeprep - XML Export
// =============================================================================
//
// This module writes preprocessed shipments as XML for downstream planning
// tools.
//
// XML STRUCTURE:
//
//   <?xml version="1.0" encoding="UTF-8"?>
//   <shipments count="2">                 <!-- Root element with row count -->
//     <shipment n="1">                    <!-- 1-indexed, in pipeline order -->
//       <rake_id>RAKE-1</rake_id>
//       <cargo>Wire Rods</cargo>
//       <loading_point>Bokaro</loading_point>
//       <destination>Mumbai</destination>
//       <wagon_count>5</wagon_count>
//       <eta>2025-10-13T05:42:59Z</eta>   <!-- RFC 3339 -->
//       <current_cost>225000</current_cost>
//     </shipment>
//     ...
//   </shipments>
//
// =============================================================================

package export

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/railops/rakeprep/internal/types"
)

// xmlDocument is the root element.
type xmlDocument struct {
	XMLName   xml.Name      `xml:"shipments"`
	Count     int           `xml:"count,attr"`
	Shipments []xmlShipment `xml:"shipment"`
}

// xmlShipment is one <shipment> element. Element names are the canonical
// column names.
type xmlShipment struct {
	N            int    `xml:"n,attr"`
	RakeID       string `xml:"rake_id"`
	Cargo        string `xml:"cargo"`
	LoadingPoint string `xml:"loading_point"`
	Destination  string `xml:"destination"`
	WagonCount   int    `xml:"wagon_count"`
	ETA          string `xml:"eta"`
	CurrentCost  string `xml:"current_cost"`
}

// WriteXML writes shipments as an indented XML document.
//
// PARAMETERS:
//   - w: The destination writer.
//   - shipments: The shipments, in pipeline order.
//
// RETURNS:
//   - An error if encoding or writing fails.
func WriteXML(w io.Writer, shipments []types.Shipment) error {
	doc := xmlDocument{
		Count:     len(shipments),
		Shipments: make([]xmlShipment, 0, len(shipments)),
	}

	for i, s := range shipments {
		doc.Shipments = append(doc.Shipments, xmlShipment{
			N:            i + 1,
			RakeID:       s.RakeID,
			Cargo:        s.Cargo,
			LoadingPoint: s.LoadingPoint,
			Destination:  s.Destination,
			WagonCount:   s.WagonCount,
			ETA:          FormatETA(s.ETA),
			CurrentCost:  FormatCost(s.CurrentCost),
		})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("failed to write XML header: %w", err)
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to marshal XML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to flush XML: %w", err)
	}

	_, err := io.WriteString(w, "\n")
	return err
}

// FormatETA renders an ETA as RFC 3339.
func FormatETA(t time.Time) string {
	return t.Format(time.RFC3339)
}

// FormatCost renders a cost with the shortest exact decimal representation,
// e.g. 225000 -> "225000", 10.5 -> "10.5".
func FormatCost(cost float64) string {
	return strconv.FormatFloat(cost, 'f', -1, 64)
}
