/*
Copyright © 2025 the tropwave authors.
This file is part of tropwave.

tropwave is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

tropwave is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with tropwave.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package figure draws and saves the diagnostic figures of tropwave.
package figure

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgeps"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"
	"gonum.org/v1/plot/vg/vgsvg"
)

// Figure is anything that can draw itself on a canvas, such as a
// *plot.Plot or a *Grid.
type Figure interface {
	Draw(c draw.Canvas)
}

// Sized is a Figure with a preferred size.
type Sized interface {
	Figure
	Size() (width, height vg.Length)
}

// Defaults used by Saver.
const (
	DefaultFilename = "mean"
	DefaultFormat   = "pdf"
	DefaultDPI      = 600
	DefaultWidth    = 6 * vg.Inch
	DefaultHeight   = 4 * vg.Inch
)

// Saver writes figures to files.
type Saver struct {
	// Folder is the directory the figures are written to. It is created
	// if it does not exist. If empty, the current working directory is
	// used.
	Folder string

	// Format is the file format and extension: one of pdf, png, jpg,
	// jpeg, tif, tiff, svg or eps. If empty, DefaultFormat is used.
	Format string

	// DPI is the resolution of raster formats. If zero, DefaultDPI is used.
	DPI int

	// Log receives progress messages. If nil, the standard logrus
	// logger is used.
	Log logrus.FieldLogger
}

// Save writes fig to <folder>/<filename>.<format> with the given
// resolution; empty or zero arguments select the defaults of Saver.
// It returns the path of the file.
func Save(fig Figure, filename, folder, format string, dpi int) (string, error) {
	s := &Saver{Folder: folder, Format: format, DPI: dpi}
	return s.Save(fig, filename)
}

// Save writes fig to <s.Folder>/<filename>.<s.Format> and returns the
// path of the file. If filename is empty DefaultFilename is used.
func (s *Saver) Save(fig Figure, filename string) (string, error) {
	log := s.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	folder := s.Folder
	if folder == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("figure: finding working directory: %v", err)
		}
		folder = wd
	}
	if filename == "" {
		filename = DefaultFilename
	}
	format := s.Format
	if format == "" {
		format = DefaultFormat
	}
	dpi := s.DPI
	if dpi == 0 {
		dpi = DefaultDPI
	}
	if dpi < 0 {
		return "", fmt.Errorf("figure: dpi=%d but should be >0", dpi)
	}

	if _, err := os.Stat(folder); os.IsNotExist(err) {
		if err := os.MkdirAll(folder, os.ModePerm); err != nil {
			return "", fmt.Errorf("figure: creating folder: %v", err)
		}
		log.WithField("folder", folder).Info("created figure folder")
	} else if err != nil {
		return "", fmt.Errorf("figure: checking folder: %v", err)
	} else {
		log.WithField("folder", folder).Debug("figure folder already exists")
	}

	w, h := DefaultWidth, DefaultHeight
	if sz, ok := fig.(Sized); ok {
		w, h = sz.Size()
	}
	c, err := newCanvas(format, w, h, dpi)
	if err != nil {
		return "", err
	}
	fig.Draw(draw.New(c))

	path := filepath.Join(folder, filename+"."+format)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("figure: creating file: %v", err)
	}
	if _, err := c.WriteTo(f); err != nil {
		f.Close()
		return "", fmt.Errorf("figure: writing %s: %v", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("figure: closing %s: %v", path, err)
	}
	log.WithField("path", path).Info("saved figure")
	return path, nil
}

// newCanvas returns a canvas for the given file format.
func newCanvas(format string, w, h vg.Length, dpi int) (vg.CanvasWriterTo, error) {
	switch strings.ToLower(format) {
	case "png":
		return vgimg.PngCanvas{Canvas: vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(dpi))}, nil
	case "jpg", "jpeg":
		return vgimg.JpegCanvas{Canvas: vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(dpi))}, nil
	case "tif", "tiff":
		return vgimg.TiffCanvas{Canvas: vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(dpi))}, nil
	case "pdf":
		return vgpdf.New(w, h), nil
	case "svg":
		return vgsvg.New(w, h), nil
	case "eps":
		return vgeps.New(w, h), nil
	default:
		return nil, fmt.Errorf("figure: unsupported format %q; valid options are pdf, png, jpg, jpeg, tif, tiff, svg and eps", format)
	}
}

// Grid is a figure made of panels arranged in rows and columns, filled
// row by row. Nil panels are left blank.
type Grid struct {
	Rows, Cols    int
	Panels        []Figure
	Width, Height vg.Length
}

// Size implements Sized.
func (g *Grid) Size() (width, height vg.Length) {
	width, height = g.Width, g.Height
	if width == 0 {
		width = DefaultWidth
	}
	if height == 0 {
		height = DefaultHeight
	}
	return width, height
}

// Draw implements Figure.
func (g *Grid) Draw(c draw.Canvas) {
	if g.Rows <= 0 || g.Cols <= 0 {
		return
	}
	pw := (c.Max.X - c.Min.X) / vg.Length(g.Cols)
	ph := (c.Max.Y - c.Min.Y) / vg.Length(g.Rows)
	for i, p := range g.Panels {
		if p == nil || i >= g.Rows*g.Cols {
			continue
		}
		row, col := i/g.Cols, i%g.Cols
		left := pw * vg.Length(col)
		right := -pw * vg.Length(g.Cols-col-1)
		top := -ph * vg.Length(row)
		bottom := ph * vg.Length(g.Rows-row-1)
		p.Draw(draw.Crop(c, left, right, bottom, top))
	}
}
