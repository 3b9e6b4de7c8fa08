package outputs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"gonum.org/v1/plot/cmpimg"
)

// renderMesh rasterizes the STL at stlPath into a PNG at pngPath, mirroring
// the teacher's stlToPNG idiom: load, fit to a unit cube, shade, and
// resize the framebuffer down to the target resolution.
func renderMesh(t *testing.T, stlPath, pngPath string) {
	t.Helper()
	mesh, err := fauxgl.LoadSTL(stlPath)
	if err != nil {
		t.Fatalf("LoadSTL: %v", err)
	}
	const width, height = 256, 256
	mesh.BiUnitCube()
	context := fauxgl.NewContext(width, height)
	context.ClearColorBufferWith(fauxgl.HexColor("#FFF8E3"))
	eye := fauxgl.V(3, 3, 3)
	center := fauxgl.V(0, 0, 0)
	up := fauxgl.V(0, 0, 1)
	matrix := fauxgl.LookAt(eye, center, up).Perspective(30, 1, 1, 10)
	light := fauxgl.V(-0.75, 1, 0.25).Normalize()
	shader := fauxgl.NewPhongShader(matrix, light, eye)
	shader.ObjectColor = fauxgl.HexColor("#468966")
	context.Shader = shader
	context.DrawMesh(mesh)
	img := context.Image()
	img = resize.Resize(width, height, img, resize.Bilinear)
	if err := fauxgl.SavePNG(pngPath, img); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}
}

// TestPreviewRasterizationIsDeterministic checks that rasterizing the same
// shipped mesh twice produces pixel-identical previews, a basic sanity
// property any visual-regression pipeline built on this writer would rely
// on.
func TestPreviewRasterizationIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	stlPath := filepath.Join(dir, "preview.stl")
	w, err := CreateSTLFile(stlPath)
	if err != nil {
		t.Fatalf("CreateSTLFile: %v", err)
	}
	if err := w.Invoke(context.Background(), triangleMesh()); err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	png1 := filepath.Join(dir, "a.png")
	png2 := filepath.Join(dir, "b.png")
	renderMesh(t, stlPath, png1)
	renderMesh(t, stlPath, png2)

	b1, err := os.ReadFile(png1)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	b2, err := os.ReadFile(png2)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	equal, err := cmpimg.EqualApprox("png", b1, b2, 0)
	if err != nil {
		t.Fatalf("EqualApprox: %v", err)
	}
	if !equal {
		t.Fatalf("rasterizing the same shipped mesh twice produced different images")
	}
}
