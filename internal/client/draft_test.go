package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stpi-ops/portal/internal/domain"
)

func TestDraftSetNestedLeaf(t *testing.T) {
	d := NewDraft(map[string]any{"companyName": "Acme"})

	d.Set("ipDetails.gateway", "10.0.0.1")
	d.Set("ipDetails.subnetMask", "255.255.255.0")

	assert.Equal(t, "10.0.0.1", d.Value("ipDetails.gateway"))
	assert.Equal(t, "255.255.255.0", d.Value("ipDetails.subnetMask"))
	assert.Equal(t, "Acme", d.Value("companyName"), "sibling fields must be untouched")
}

func TestDraftSetListCell(t *testing.T) {
	d := NewDraft(nil)
	d.AppendRow("servicePeriods", map[string]any{"date": "2024-01-01", "bandwidth": "50Mbps"})
	d.AppendRow("servicePeriods", map[string]any{"date": "2024-06-01", "bandwidth": "100Mbps"})

	d.SetCell("servicePeriods", 1, "bandwidth", "150Mbps")

	assert.Equal(t, "150Mbps", d.Value("servicePeriods.1.bandwidth"))
	assert.Equal(t, "50Mbps", d.Value("servicePeriods.0.bandwidth"), "other rows must be untouched")
}

func TestDraftRemoveRow(t *testing.T) {
	d := NewDraft(nil)
	d.AppendRow("routerDetails", map[string]any{"name": "R1", "port": "22"})
	d.AppendRow("routerDetails", map[string]any{"name": "R2", "port": "23"})

	d.RemoveRow("routerDetails", 0)

	rows, ok := d.Value("routerDetails").([]any)
	require.True(t, ok)
	require.Len(t, rows, 1)
	assert.Equal(t, "R2", d.Value("routerDetails.0.name"))
}

func TestDraftRemoveLastRowLeavesPlaceholder(t *testing.T) {
	d := NewDraft(nil)
	d.AppendRow("routerDetails", map[string]any{"name": "R1", "port": "22"})

	d.RemoveRow("routerDetails", 0)

	rows, ok := d.Value("routerDetails").([]any)
	require.True(t, ok)
	require.Len(t, rows, 1, "list collapses to one placeholder row, not zero")
	assert.Equal(t, "", d.Value("routerDetails.0.name"))
	assert.Equal(t, "", d.Value("routerDetails.0.port"))
}

func TestDraftRemoveLastStringRowLeavesEmptyString(t *testing.T) {
	d := NewDraft(map[string]any{"aprReports": []any{"APR-2023"}})

	d.RemoveRow("aprReports", 0)

	rows, ok := d.Value("aprReports").([]any)
	require.True(t, ok)
	require.Len(t, rows, 1, "string list collapses to one blank entry, not zero")
	assert.Equal(t, "", rows[0])

	u, err := Decode[domain.Unit](d)
	require.NoError(t, err, "the collapsed list must still decode into its typed field")
	assert.Equal(t, []string{""}, u.APRReports)
}

func TestDraftRemoveRowOutOfRange(t *testing.T) {
	d := NewDraft(nil)
	d.AppendRow("routerDetails", map[string]any{"name": "R1"})

	d.RemoveRow("routerDetails", 5)
	d.RemoveRow("routerDetails", -1)

	rows, _ := d.Value("routerDetails").([]any)
	assert.Len(t, rows, 1)
}

func TestDraftDerivesBandwidthTotal(t *testing.T) {
	d := NewDraft(nil)

	d.Set("bandwidthDetails.free", 10.0)
	assert.Equal(t, 10.0, d.Value("bandwidthDetails.total"))

	d.Set("bandwidthDetails.purchased", 5.0)
	assert.Equal(t, 15.0, d.Value("bandwidthDetails.total"))

	d.Set("bandwidthDetails.free", 20.0)
	assert.Equal(t, 25.0, d.Value("bandwidthDetails.total"))
}

func TestDraftTotalNotRecomputedOnOtherEdits(t *testing.T) {
	d := NewDraft(nil)
	d.Set("bandwidthDetails.total", 99.0)

	d.Set("companyName", "Acme")

	assert.Equal(t, 99.0, d.Value("bandwidthDetails.total"))
}

func TestDraftOfSeedsEditID(t *testing.T) {
	rec := domain.Customer{CompanyName: "Acme", Bandwidth: "100Mbps"}

	d, err := DraftOf(rec, "abc123")
	require.NoError(t, err)

	assert.Equal(t, "abc123", d.EditID())
	assert.Equal(t, "Acme", d.Value("companyName"))
}

func TestDraftDecode(t *testing.T) {
	d := NewDraft(nil)
	d.Set("companyName", "Acme")
	d.Set("ipDetails.gateway", "10.0.0.1")
	d.Set("bandwidthDetails.free", 10.0)

	c, err := Decode[domain.Customer](d)
	require.NoError(t, err)

	assert.Equal(t, "Acme", c.CompanyName)
	assert.Equal(t, "10.0.0.1", c.IPDetails.Gateway)
	assert.Equal(t, 10.0, c.BandwidthDetails.Free)
}

func TestDraftValueAbsentPath(t *testing.T) {
	d := NewDraft(nil)
	assert.Nil(t, d.Value("ipDetails.gateway"))
	assert.Nil(t, d.Value("servicePeriods.0.date"))
}
