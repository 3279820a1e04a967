package particles

import "github.com/go-gl/mathgl/mgl64"

// View carries the camera transforms the ribbon mesh needs to face the viewer.
// The presentation layer supplies it; the zero value means identity matrices.
type View struct {
	// ModelView takes ribbon points into camera space.
	ModelView mgl64.Mat4
	// CameraWorld is the camera's world matrix, used to bring the screen-facing
	// offset back into world space.
	CameraWorld mgl64.Mat4
}

// IdentityView looks down -Z with no transform at all.
func IdentityView() View {
	return View{ModelView: mgl64.Ident4(), CameraWorld: mgl64.Ident4()}
}

// NewView builds a View from a camera world matrix, assuming the ribbon mesh
// itself sits at the world origin.
func NewView(cameraWorld mgl64.Mat4) View {
	return View{ModelView: cameraWorld.Inv(), CameraWorld: cameraWorld}
}

func (v View) orIdentity() View {
	var zero mgl64.Mat4
	if v.ModelView == zero {
		v.ModelView = mgl64.Ident4()
	}
	if v.CameraWorld == zero {
		v.CameraWorld = mgl64.Ident4()
	}
	return v
}
