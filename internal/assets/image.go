package assets

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gen2brain/go-fitz"
	_ "golang.org/x/image/webp"
)

// Image is an inspected raster image or a single PDF page. Page is 1-based and
// zero for plain images; PDF pages are measured in points.
type Image struct {
	Path   string
	Page   int
	Format string
	Width  int
	Height int
}

// Aspect is width over height.
func (i Image) Aspect() float64 {
	if i.Height == 0 {
		return 1
	}
	return float64(i.Width) / float64(i.Height)
}

// InspectImage reads image dimensions without decoding pixels. A path of the
// form "deck.pdf#3" selects page 3 of a PDF; a bare PDF path means page 1.
func InspectImage(path string) (Image, error) {
	file, page := splitPage(path)
	if strings.EqualFold(filepath.Ext(file), ".pdf") {
		return inspectPDFPage(file, page)
	}
	if page != 0 {
		return Image{}, fmt.Errorf("page selector on non-PDF file %q", path)
	}

	f, err := os.Open(file)
	if err != nil {
		return Image{}, err
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return Image{}, err
	}
	return Image{Path: file, Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}

func inspectPDFPage(path string, page int) (Image, error) {
	if page == 0 {
		page = 1
	}
	doc, err := fitz.New(path)
	if err != nil {
		return Image{}, err
	}
	defer doc.Close()

	if page < 1 || page > doc.NumPage() {
		return Image{}, fmt.Errorf("page %d out of range, document has %d", page, doc.NumPage())
	}
	rect, err := doc.Bound(page - 1)
	if err != nil {
		return Image{}, err
	}
	return Image{Path: path, Page: page, Format: "pdf", Width: rect.Dx(), Height: rect.Dy()}, nil
}

func splitPage(path string) (string, int) {
	hash := strings.LastIndexByte(path, '#')
	if hash < 0 {
		return path, 0
	}
	n, err := strconv.Atoi(path[hash+1:])
	if err != nil || n < 1 {
		return path, 0
	}
	return path[:hash], n
}
