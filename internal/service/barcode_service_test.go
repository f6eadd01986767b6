package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homestash/internal/oracle"
)

type fakeLookup struct {
	products map[string]*oracle.Product
	down     bool
}

func (f *fakeLookup) Lookup(ctx context.Context, barcode string) (*oracle.Product, error) {
	if f.down {
		return nil, oracle.ErrUnavailable
	}
	return f.products[barcode], nil
}

type fakeVision struct {
	texts []string
	data  *oracle.VisionData
	down  bool
}

func (f *fakeVision) Analyze(ctx context.Context, image []byte) (*oracle.VisionData, error) {
	if f.down {
		return nil, oracle.ErrUnavailable
	}
	if f.data != nil {
		return f.data, nil
	}
	return &oracle.VisionData{}, nil
}

func (f *fakeVision) DetectText(ctx context.Context, image []byte) ([]string, error) {
	if f.down {
		return nil, oracle.ErrUnavailable
	}
	return f.texts, nil
}

func (env *testEnv) newBarcodeService(lookup oracle.ProductLookup, vision oracle.Vision) *BarcodeService {
	return NewBarcodeService(
		env.itemRepo, env.containerRepo, env.locationRepo, env.items,
		lookup, vision, nil,
	)
}

func TestValidateBarcodeFormats(t *testing.T) {
	env := newTestEnv(t)
	svc := env.newBarcodeService(nil, nil)

	cases := []struct {
		code     string
		codeType string
		valid    bool
	}{
		{"036000291452", "UPC-A", true},
		{"03600029145", "UPC-A", false},  // too short
		{"036000291453", "UPC-A", false}, // bad check digit
		{"4006381333931", "EAN-13", true},
		{"4006381333930", "EAN-13", false}, // bad check digit
		{"96385074", "EAN-8", true},
		{"96385075", "EAN-8", false}, // bad check digit
		{"ABC-1234", "CODE-39", true},
		{"abc", "CODE-39", false}, // lowercase not in the alphabet
		{"anything ascii 123", "CODE-128", true},
		{"1234567890", "ITF", true},
		{"12345A", "ITF", false},
		{"036000291452", "QR", false}, // unsupported type
	}
	for _, tc := range cases {
		err := svc.ValidateBarcode(tc.code, tc.codeType)
		if tc.valid {
			assert.NoError(t, err, "%s %s", tc.codeType, tc.code)
		} else {
			var validationErr *ValidationError
			assert.ErrorAs(t, err, &validationErr, "%s %s", tc.codeType, tc.code)
		}
	}
}

func TestCheckDigit(t *testing.T) {
	digit, err := CalculateCheckDigit("400638133393")
	require.NoError(t, err)
	assert.Equal(t, 1, digit)

	digit, err = CalculateCheckDigit("03600029145")
	require.NoError(t, err)
	assert.Equal(t, 2, digit)

	assert.True(t, VerifyCheckDigit("96385074"))
	assert.False(t, VerifyCheckDigit("96385073"))

	_, err = CalculateCheckDigit("12a4")
	assert.Error(t, err)
}

func TestRegisterItemFillsNameFromProductDB(t *testing.T) {
	env := newTestEnv(t)
	lookup := &fakeLookup{products: map[string]*oracle.Product{
		"4006381333931": {
			Name:        "Point 88 Fineliner",
			Brand:       "Stabilo",
			Description: "0.4mm pen",
			Barcode:     "4006381333931",
		},
	}}
	svc := env.newBarcodeService(lookup, nil)

	registered, err := svc.RegisterItem(context.Background(), env.userID, &RegisterItemRequest{
		Barcode:     "4006381333931",
		BarcodeType: "EAN-13",
	})
	require.NoError(t, err)
	assert.Equal(t, "Stabilo Point 88 Fineliner", registered.Item.Name)
	assert.Equal(t, "0.4mm pen", registered.Item.Description)
	assert.Equal(t, "EAN-13", registered.Item.BarcodeType)
	require.NotNil(t, registered.Product)

	// A caller-supplied name wins over the database
	registered2, err := svc.RegisterItem(context.Background(), env.userID, &RegisterItemRequest{
		Barcode:     "96385074",
		BarcodeType: "EAN-8",
		Name:        "My pens",
	})
	require.NoError(t, err)
	assert.Equal(t, "My pens", registered2.Item.Name)
}

func TestRegisterItemDuplicateBarcodeRejected(t *testing.T) {
	env := newTestEnv(t)
	svc := env.newBarcodeService(&fakeLookup{down: true}, nil)

	_, err := svc.RegisterItem(context.Background(), env.userID, &RegisterItemRequest{
		Barcode:     "4006381333931",
		BarcodeType: "EAN-13",
		Name:        "Pens",
	})
	require.NoError(t, err)

	_, err = svc.RegisterItem(context.Background(), env.userID, &RegisterItemRequest{
		Barcode:     "4006381333931",
		BarcodeType: "EAN-13",
		Name:        "More pens",
	})
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, ConflictDuplicateCode, conflict.Kind)
}

func TestRegisterItemSurvivesLookupOutage(t *testing.T) {
	env := newTestEnv(t)
	svc := env.newBarcodeService(&fakeLookup{down: true}, nil)

	registered, err := svc.RegisterItem(context.Background(), env.userID, &RegisterItemRequest{
		Barcode:     "4006381333931",
		BarcodeType: "EAN-13",
	})
	require.NoError(t, err)
	assert.Equal(t, "Unknown item (4006381333931)", registered.Item.Name)
	assert.Nil(t, registered.Product)
}

func TestFindByBarcodeResolvesPath(t *testing.T) {
	env := newTestEnv(t)
	svc := env.newBarcodeService(nil, nil)

	garage := env.mustLocation(t, "Garage", nil)
	box, err := env.containers.Create(env.userID, &CreateContainerRequest{
		Name:        "Box 1",
		LocationID:  &garage.ID,
		Barcode:     "96385074",
		BarcodeType: "EAN-8",
	})
	require.NoError(t, err)
	env.mustItem(t, "Drill", CreateItemRequest{
		ContainerID: &box.ID,
		Barcode:     "4006381333931",
		BarcodeType: "EAN-13",
	})

	// Item inherits its location through the container it sits in
	match, err := svc.FindByBarcode("4006381333931", env.userID)
	require.NoError(t, err)
	assert.Equal(t, "item", match.Type)
	require.NotNil(t, match.Item)
	assert.Equal(t, "Garage > Box 1", match.LocationPath)

	match, err = svc.FindByBarcode("96385074", env.userID)
	require.NoError(t, err)
	assert.Equal(t, "container", match.Type)
	require.NotNil(t, match.Container)
	assert.Equal(t, "Garage > Box 1", match.LocationPath)

	_, err = svc.FindByBarcode("0000000000000", env.userID)
	var notFoundErr *NotFoundError
	assert.ErrorAs(t, err, &notFoundErr)
}

func TestScanImageExtractsCodes(t *testing.T) {
	env := newTestEnv(t)
	vision := &fakeVision{texts: []string{
		"EAN 4006381333931 printed below the bars",
		"no digits here",
		"96385074 96385074",
	}}
	svc := env.newBarcodeService(nil, vision)

	codes, err := svc.ScanImage(context.Background(), []byte("img"))
	require.NoError(t, err)
	assert.Equal(t, []string{"4006381333931", "96385074"}, codes)
}

func TestScanImageVisionDown(t *testing.T) {
	env := newTestEnv(t)
	svc := env.newBarcodeService(nil, &fakeVision{down: true})

	_, err := svc.ScanImage(context.Background(), []byte("img"))
	var depErr *DependencyError
	assert.ErrorAs(t, err, &depErr)
}
