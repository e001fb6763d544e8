package model

import (
	"encoding/json"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestService_MarshalJSON(t *testing.T) {
	id := primitive.NewObjectID()

	tests := []struct {
		name    string
		service Service
		want    map[string]any
		absent  []string
	}{
		{
			name:    "定義済みフィールドのみ",
			service: Service{ID: id, ServiceID: "01", Title: "Engine Repair", Price: "150.00", Img: "engine.jpg"},
			want: map[string]any{
				"_id": id.Hex(), "service_id": "01", "title": "Engine Repair", "price": "150.00", "img": "engine.jpg",
			},
			absent: []string{"description", "facility", "Extra"},
		},
		{
			name: "未定義フィールドを同じ階層に出力する",
			service: Service{
				ID: id, ServiceID: "02", Title: "Tire Rotation", Price: 25.5, Img: "tire.jpg",
				Extra: bson.M{"rating": int32(5), "workshop": bson.M{"city": "Dhaka"}},
			},
			want: map[string]any{
				"_id": id.Hex(), "service_id": "02", "price": 25.5,
				"rating": float64(5), "workshop": map[string]any{"city": "Dhaka"},
			},
		},
		{
			name: "キーが重複した場合は定義済みフィールドを優先する",
			service: Service{
				ID: id, ServiceID: "03", Title: "Oil Change", Price: "40.00",
				Extra: bson.M{"title": "shadowed"},
			},
			want: map[string]any{"title": "Oil Change"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.service)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			var got map[string]any
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			for k, want := range tt.want {
				if nested, ok := want.(map[string]any); ok {
					gotNested, ok := got[k].(map[string]any)
					if !ok {
						t.Errorf("%s = %#v, want object", k, got[k])
						continue
					}
					for nk, nv := range nested {
						if gotNested[nk] != nv {
							t.Errorf("%s.%s = %#v, want %#v", k, nk, gotNested[nk], nv)
						}
					}
					continue
				}
				if got[k] != want {
					t.Errorf("%s = %#v, want %#v", k, got[k], want)
				}
			}
			for _, k := range tt.absent {
				if _, ok := got[k]; ok {
					t.Errorf("%s should be omitted, got %#v", k, got[k])
				}
			}
		})
	}
}
