package scan

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-barcode-generator/internal/imaging"
	"go-barcode-generator/internal/lotid"
	"go-barcode-generator/internal/services"
	"go-barcode-generator/internal/symbology"
)

func render(t *testing.T, format symbology.Format, opts symbology.Options, content string) *symbology.Symbol {
	t.Helper()
	sym, err := symbology.NewDefaultEngine().CreateSymbol(format, opts, content)
	require.NoError(t, err)
	return sym
}

func TestVerifyQRCode(t *testing.T) {
	engine := symbology.NewDefaultEngine()
	sym := render(t, symbology.QRCode, symbology.Options{ECLevel: 1}, "5AV")
	img, err := engine.Rasterize(sym, symbology.RasterOptions{Scale: 4, QuietZones: true})
	require.NoError(t, err)

	v := NewVerifier()
	require.NoError(t, v.Verify(img, "qrcode", "5AV"))
	assert.ErrorIs(t, v.Verify(img, "QRCode", "XYZ"), ErrMismatch)
}

func TestVerifyCode128(t *testing.T) {
	engine := symbology.NewDefaultEngine()
	sym := render(t, symbology.Code128, symbology.Options{}, "A01137H81307UD00")
	img, err := engine.Rasterize(sym, symbology.RasterOptions{Scale: 2, QuietZones: true})
	require.NoError(t, err)

	res, err := NewVerifier().Decode(img)
	require.NoError(t, err)
	assert.Equal(t, "A01137H81307UD00", res.Text)
	assert.Equal(t, "Code128", res.Format)
}

func TestVerifyLotTokenDataMatrix(t *testing.T) {
	svc := services.NewBarcodeService(nil)
	v := NewVerifier()

	tests := []struct {
		id, lot byte
	}{
		{17, 200},
		{0, 0},
		{255, 255},
	}
	for _, tt := range tests {
		token := lotid.Encode(tt.id, tt.lot).String()
		t.Run(token, func(t *testing.T) {
			sym, err := svc.RenderDataMatrix(token)
			require.NoError(t, err)

			require.NoError(t, v.Verify(sym.Image, "DataMatrix", token))
			assert.ErrorIs(t, v.Verify(sym.Image, "datamatrix", token+"X"), ErrMismatch)

			res, err := v.Decode(sym.Image)
			require.NoError(t, err)
			assert.Equal(t, "DataMatrix", res.Format)
			assert.Equal(t, token, res.Text)
		})
	}
}

func TestVerifyAztec(t *testing.T) {
	engine := symbology.NewDefaultEngine()
	sym := render(t, symbology.Aztec, symbology.Options{}, "HELLO AZTEC")
	img, err := engine.Rasterize(sym, symbology.RasterOptions{Scale: 4, QuietZones: true})
	require.NoError(t, err)

	require.NoError(t, NewVerifier().Verify(img, "Aztec", "HELLO AZTEC"))
}

func TestVerifyUnsupportedFormat(t *testing.T) {
	v := NewVerifier()
	assert.False(t, v.CanVerify("PDF417"))
	assert.True(t, v.CanVerify("ean13"))
	assert.True(t, v.CanVerify("DataMatrix"))
	assert.True(t, v.CanVerify("aztec"))

	engine := symbology.NewDefaultEngine()
	sym := render(t, symbology.QRCode, symbology.Options{}, "X")
	img, err := engine.Rasterize(sym, symbology.RasterOptions{Scale: 2, QuietZones: true})
	require.NoError(t, err)
	_, err = v.Decode(img, "PDF417")
	assert.ErrorIs(t, err, ErrNotVerifiable)
}

func TestDecodeRequest(t *testing.T) {
	engine := symbology.NewDefaultEngine()
	sym := render(t, symbology.QRCode, symbology.Options{ECLevel: 2}, "HELLO")
	img, err := engine.Rasterize(sym, symbology.RasterOptions{Scale: 3, QuietZones: true})
	require.NoError(t, err)
	data, err := imaging.PNG300DPI(img)
	require.NoError(t, err)

	resp := NewVerifier().DecodeRequest(&DecodeRequest{
		ImageData: "data:image/png;base64," + base64.StdEncoding.EncodeToString(data),
		Expected:  "HELLO",
	})
	require.True(t, resp.Success, resp.Error)
	assert.Equal(t, "HELLO", resp.Result.Text)
	require.NotNil(t, resp.Matches)
	assert.True(t, *resp.Matches)

	resp = NewVerifier().DecodeRequest(&DecodeRequest{ImageData: "!!!"})
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "Failed to decode image")
}
