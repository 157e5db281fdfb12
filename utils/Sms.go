package utils

import (
	"errors"
	"fmt"

	"github.com/fiorix/go-smpp/smpp"
	"github.com/fiorix/go-smpp/smpp/pdu/pdufield"
	"github.com/fiorix/go-smpp/smpp/pdu/pdutext"
)

// SendSMS submits one message over the bound SMPP transmitter. Callers that do not
// care about delivery run it in a goroutine; the draw flow checks the error to fill
// the sms_sent flag.
func SendSMS(phone string, message string, senderId string, serviceName string, smsType string, tx *smpp.Transmitter) error {
	defer PanicRecover()
	if IsTestMode {
		LogMessage(INFO, fmt.Sprintf("SendSMS (test mode): type:%s, phone:%s, message:%s", smsType, phone, message), serviceName)
		return nil
	}
	if tx == nil {
		LogMessage(ERROR, fmt.Sprintf("SendSMS: no SMPP transmitter bound, type:%s, phone:%s", smsType, phone), serviceName)
		return errors.New("sms transmitter is not connected")
	}
	_, err := tx.Submit(&smpp.ShortMessage{
		Src:      senderId,
		Dst:      phone,
		Text:     pdutext.Raw(message),
		Register: pdufield.NoDeliveryReceipt,
	})
	if err != nil {
		LogMessage(ERROR, fmt.Sprintf("SendSMS: submit failed, type:%s, phone:%s, err:%v", smsType, phone, err), serviceName)
		return err
	}
	return nil
}
