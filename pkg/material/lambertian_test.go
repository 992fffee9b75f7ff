package material

import (
	"testing"

	"github.com/df07/go-meshtrace/pkg/core"
	"github.com/stretchr/testify/assert"
)

func TestLambertian_SolidAlbedo(t *testing.T) {
	albedo := core.NewVec3(0.8, 0.8, 0.0)
	lambertian := NewLambertian(albedo)

	assert.Equal(t, albedo, lambertian.Albedo(core.NewVec3(0, 0, 0)))
	assert.Equal(t, albedo, lambertian.Albedo(core.NewVec3(100, -3, 7)))
}

func TestChecker_Alternates(t *testing.T) {
	white := core.NewVec3(1, 1, 1)
	black := core.NewVec3(0, 0, 0)
	checker := NewChecker(1.0, white, black)
	lambertian := NewTexturedLambertian(checker)

	tests := []struct {
		name     string
		point    core.Vec3
		expected core.Vec3
	}{
		{"Origin cell", core.NewVec3(0.5, 0.5, 0.5), white},
		{"Step in X", core.NewVec3(1.5, 0.5, 0.5), black},
		{"Step in X and Y", core.NewVec3(1.5, 1.5, 0.5), white},
		{"Negative cell", core.NewVec3(-0.5, 0.5, 0.5), black},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, lambertian.Albedo(tt.point))
		})
	}
}
