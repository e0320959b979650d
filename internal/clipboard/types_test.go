package clipboard

import (
	"bytes"
	"testing"
)

func TestImageDataValidate(t *testing.T) {
	tests := []struct {
		name    string
		img     ImageData
		wantErr bool
	}{
		{
			name: "valid image",
			img:  ImageData{Data: make([]byte, 1024), Width: 800, Height: 600},
		},
		{
			name:    "too many bytes",
			img:     ImageData{Data: make([]byte, MaxImageSize+1), Width: 100, Height: 100},
			wantErr: true,
		},
		{
			name:    "too wide",
			img:     ImageData{Data: make([]byte, 1024), Width: MaxImageDimension + 1, Height: 100},
			wantErr: true,
		},
		{
			name:    "too tall",
			img:     ImageData{Data: make([]byte, 1024), Width: 100, Height: MaxImageDimension + 1},
			wantErr: true,
		},
		{
			name: "exactly at the limits",
			img:  ImageData{Data: make([]byte, MaxImageSize), Width: MaxImageDimension, Height: MaxImageDimension},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.img.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestImageDataSizeKB(t *testing.T) {
	img := ImageData{Data: bytes.Repeat([]byte{0}, 2048)}
	if got := img.SizeKB(); got != 2 {
		t.Errorf("SizeKB() = %d, want 2", got)
	}
}
