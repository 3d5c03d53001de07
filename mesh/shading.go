package mesh

import "gonum.org/v1/gonum/spatial/r3"

// FaceNormal returns the unit outward normal of triangle face, or the
// zero vector if the triangle is degenerate.
func (m *Mesh) FaceNormal(face int) r3.Vec {
	a, b, c := m.corners(face)
	n := r3.Cross(r3.Sub(b, a), r3.Sub(c, a))
	if n == (r3.Vec{}) {
		return n
	}
	return r3.Unit(n)
}

// Normal returns the shading normal at h. If all three vertexes of the
// face carry normals, they are interpolated; otherwise this is the face
// normal.
func (m *Mesh) Normal(h Hit) r3.Vec {
	t := m.tris[h.Face]
	va, vb, vc := &m.verts[t[0]], &m.verts[t[1]], &m.verts[t[2]]
	if va.Attr&vb.Attr&vc.Attr&HasNormal == 0 {
		return m.FaceNormal(h.Face)
	}
	w := 1 - h.U - h.V
	n := r3.Add(r3.Add(r3.Scale(w, va.Normal), r3.Scale(h.U, vb.Normal)), r3.Scale(h.V, vc.Normal))
	if n == (r3.Vec{}) {
		return m.FaceNormal(h.Face)
	}
	return r3.Unit(n)
}

// TexCoord returns the interpolated texture coordinate at h. ok is false
// if any vertex of the face lacks one.
func (m *Mesh) TexCoord(h Hit) (uv [2]float64, ok bool) {
	t := m.tris[h.Face]
	va, vb, vc := &m.verts[t[0]], &m.verts[t[1]], &m.verts[t[2]]
	if va.Attr&vb.Attr&vc.Attr&HasUV == 0 {
		return uv, false
	}
	w := 1 - h.U - h.V
	for i := range uv {
		uv[i] = w*va.UV[i] + h.U*vb.UV[i] + h.V*vc.UV[i]
	}
	return uv, true
}
