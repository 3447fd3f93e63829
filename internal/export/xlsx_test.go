package export_test

import (
	"bytes"
	"testing"

	"campusnest/internal/dto"
	"campusnest/internal/export"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteHousingXLSX(t *testing.T) {
	rent := 925
	rows := []dto.HousingSummary{
		{
			HousingView:   dto.HousingView{Name: "Maple Apartments", Address: "100 Main St", City: "Corvallis", State: "OR", ZipCode: "97331"},
			AverageRating: 7.7, ReviewCount: 3, AverageRent: &rent,
		},
		{
			HousingView: dto.HousingView{Name: "Oak Hall", Address: "5 Oak Rd", City: "Corvallis", State: "OR", ZipCode: "97331", IsOnCampus: true},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, export.WriteHousingXLSX(&buf, rows))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, []string{export.SheetName}, f.GetSheetList())

	got, err := f.GetRows(export.SheetName)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, export.Headers, got[0])
	require.Equal(t, []string{"Maple Apartments", "100 Main St", "Corvallis", "OR", "97331", "No", "3", "7.7", "3.85", "925"}, got[1])

	// unreviewed housing leaves rating and rent cells blank
	require.Equal(t, []string{"Oak Hall", "5 Oak Rd", "Corvallis", "OR", "97331", "Yes", "0"}, got[2])
}
