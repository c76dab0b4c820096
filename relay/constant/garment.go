package constant

import "fmt"

// AI 后端使用的服装部位类别
const (
	CategoryUpperBody = "upper_body"
	CategoryLowerBody = "lower_body"
	CategoryDresses   = "dresses"
)

var garmentDescriptions = map[string]string{
	"top":      "A fashionable top, casual wear, fitted style",
	"shirt":    "A button-up shirt, formal or casual, well-fitted",
	"sweater":  "A cozy knit sweater, comfortable fit",
	"cardigan": "A stylish cardigan sweater, open front, elegant drape",
	"jacket":   "A tailored jacket, structured fit, outerwear",
	"dress":    "An elegant dress, flattering silhouette",
	"pants":    "Well-fitted pants, tailored cut",
	"jeans":    "Classic denim jeans, modern fit",
	"shorts":   "Casual shorts, comfortable fit",
	"skirt":    "A stylish skirt, flattering length",
}

// GarmentCategory 把自由文本的服装类型映射到类别
// 未识别的类型归入 upper_body，不做几何上的特殊处理
func GarmentCategory(garmentType string) string {
	switch garmentType {
	case "dress":
		return CategoryDresses
	case "pants", "jeans", "shorts", "skirt":
		return CategoryLowerBody
	default:
		return CategoryUpperBody
	}
}

// GarmentDescription 给 AI 后端的服装文字描述
func GarmentDescription(garmentType string) string {
	if desc, ok := garmentDescriptions[garmentType]; ok {
		return desc
	}
	return fmt.Sprintf("A %s clothing item, well-fitted, stylish", garmentType)
}
