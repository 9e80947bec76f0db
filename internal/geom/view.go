/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geom

// DevicePoint is a position in device pixels.
type DevicePoint struct{ X, Y float64 }

// View maps model units to device pixels: device = model·zoom·ppu + offset.
// Zoom is the user zoom factor; PixelsPerUnit is the fixed base scale of the
// canvas at zoom 1; Offset is the pan in device pixels.
type View struct {
	Zoom          float64
	PixelsPerUnit float64
	Offset        DevicePoint
}

// DefaultView is zoom 1 at one pixel per inch with no pan.
func DefaultView() View { return View{Zoom: 1, PixelsPerUnit: 1} }

func (v View) scale() float64 {
	s := v.Zoom * v.PixelsPerUnit
	if s == 0 {
		return 1
	}
	return s
}

// Matrix is the model→device transform.
func (v View) Matrix() Affine {
	s := v.scale()
	return Translate(v.Offset.X, v.Offset.Y).Mul(Scale(s, s))
}

func (v View) ToDevice(p Point) DevicePoint {
	q := v.Matrix().Apply(p)
	return DevicePoint{q.X, q.Y}
}

func (v View) ToModel(dp DevicePoint) Point {
	return v.Matrix().Invert().Apply(Point{dp.X, dp.Y})
}

// PixelsToModel converts a fixed visual tolerance (line-hit, vertex-hit) into
// model units at the current zoom and base scale.
func (v View) PixelsToModel(px float64) float64 { return px / v.scale() }

// ZoomScaled divides a threshold by zoom only. Snap and alignment tolerances
// use this convention.
func (v View) ZoomScaled(threshold float64) float64 {
	if v.Zoom == 0 {
		return threshold
	}
	return threshold / v.Zoom
}

// Pan shifts the view offset by the given device delta.
func (v View) Pan(dx, dy float64) View {
	v.Offset.X += dx
	v.Offset.Y += dy
	return v
}

// ZoomAt changes zoom while keeping the model point under the device anchor fixed.
func (v View) ZoomAt(anchor DevicePoint, zoom float64) View {
	if zoom <= 0 {
		return v
	}
	m := v.ToModel(anchor)
	v.Zoom = zoom
	s := v.scale()
	v.Offset = DevicePoint{anchor.X - m.X*s, anchor.Y - m.Y*s}
	return v
}
