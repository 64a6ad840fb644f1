package tagset

import (
	"slices"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jimyag/tagforge/internal/tagforge/entity"
	"github.com/jimyag/tagforge/pkg/apierror"
)

// 标签值校验规则，未列出的类型接受任意文本
var valueRules = map[entity.TagType]string{
	entity.TagTypeRatio:  "ratio",
	entity.TagTypeBatch:  "batchsize",
	entity.TagTypeSeed:   "seed",
	entity.TagTypePolish: "oneof=true false",
}

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New()
	if err := RegisterValidators(v); err != nil {
		panic(err)
	}
	return v
}

// RegisterValidators 注册 tagtype、ratio、batchsize 和 seed 校验规则
func RegisterValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("tagtype", func(fl validator.FieldLevel) bool {
		return entity.TagType(fl.Field().String()).Valid()
	}); err != nil {
		return err
	}
	if err := v.RegisterValidation("ratio", func(fl validator.FieldLevel) bool {
		return slices.Contains(Ratios, fl.Field().String())
	}); err != nil {
		return err
	}
	// 与 BatchSize 的解析方式一致，"3张" 按 3 计
	if err := v.RegisterValidation("batchsize", func(fl validator.FieldLevel) bool {
		n, ok := parseLeadingInt(fl.Field().String())
		return ok && n > 0
	}); err != nil {
		return err
	}
	// -1 表示随机种子
	return v.RegisterValidation("seed", func(fl validator.FieldLevel) bool {
		_, err := strconv.ParseInt(strings.TrimSpace(fl.Field().String()), 10, 64)
		return err == nil
	})
}

// ValidateValue 校验 t 类型标签或变量值的取值
func ValidateValue(t entity.TagType, value string) error {
	rule, ok := valueRules[t]
	if !ok {
		return nil
	}
	if err := validate.Var(value, rule); err != nil {
		if t == entity.TagTypePolish {
			return apierror.ErrPolishValueRestricted
		}
		return apierror.WithMessage(apierror.ErrInvalidParameter, "invalid %s value %q", t, value)
	}
	return nil
}
