package validator

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zhtranslations "github.com/go-playground/validator/v10/translations/zh"
)

const (
	mobileTag = "mobile"
	genderTag = "gender"
)

var mobileRegexp = regexp.MustCompile(`^1[3-9]\d{9}$`)

var translator ut.Translator

// IsMobile 校验大陆手机号
func IsMobile(s string) bool {
	return mobileRegexp.MatchString(s)
}

// NormalizeGender 将 M/F/男/女 统一为 M 或 F，无法识别时返回 false
func NormalizeGender(s string) (string, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "M", "男":
		return "M", true
	case "F", "女":
		return "F", true
	}
	return "", false
}

// Register 向 validator 注册自定义校验规则与中文错误信息
// 由路由初始化时作用于 gin 的 binding 引擎
func Register(v *validator.Validate) error {
	// 错误信息使用 json 字段名
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation(mobileTag, func(fl validator.FieldLevel) bool {
		return IsMobile(fl.Field().String())
	}); err != nil {
		return err
	}
	if err := v.RegisterValidation(genderTag, func(fl validator.FieldLevel) bool {
		g := fl.Field().String()
		return g == "M" || g == "F"
	}); err != nil {
		return err
	}

	zhLocale := zh.New()
	uni := ut.New(zhLocale, zhLocale)
	translator, _ = uni.GetTranslator("zh")
	if err := zhtranslations.RegisterDefaultTranslations(v, translator); err != nil {
		return err
	}

	custom := map[string]string{
		mobileTag: "{0}必须是有效的手机号",
		genderTag: "{0}只能是 M 或 F",
	}
	for tag, msg := range custom {
		msg := msg
		err := v.RegisterTranslation(tag, translator,
			func(t ut.Translator) error { return t.Add(tag, msg, true) },
			func(t ut.Translator, fe validator.FieldError) string {
				s, _ := t.T(fe.Tag(), fe.Field())
				return s
			})
		if err != nil {
			return err
		}
	}
	return nil
}

// Describe 将绑定错误转为可读的中文描述；非校验错误返回空串
func Describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return ""
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if translator != nil {
			msgs = append(msgs, fe.Translate(translator))
		} else {
			msgs = append(msgs, fe.Error())
		}
	}
	return strings.Join(msgs, "; ")
}
